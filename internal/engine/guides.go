package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/PanelGrid/internal/model"
)

// segParamTol is the tolerance on the [0,1] edge-segment parameter when
// accepting a guide/boundary intersection.
const segParamTol = 1e-9

// seamSlack is the absolute in-plane distance a seam may overshoot a boundary
// edge endpoint and still count as a hit. Tiled grids separate neighboring
// cells by a small positive nudge, which places seam origins half a nudge
// past the outer edges; the slack absorbs that while a genuinely misplaced
// seam still misses by a cell-scale distance.
const seamSlack = 1e-3

// BuildGuides computes one seam reference line per internal column boundary
// and one per internal row boundary of a validated row-major grid. Each line
// is clipped to the grid's true outer boundary and extended by padding
// strictly along its own direction. Column guides come first, left to right,
// then row guides top to bottom.
//
// Materializing the segments as persistent lines, and any styling, is the
// caller's concern.
func BuildGuides(grid [][]model.OrientedRect, frame model.PlaneFrame, padding float64) ([]model.GuideLineSegment, error) {
	rows := len(grid)
	if rows < 1 {
		return nil, fmt.Errorf("%w: empty grid", ErrArgumentRange)
	}
	cols := len(grid[0])
	for r, row := range grid {
		if len(row) != cols || cols < 1 {
			return nil, fmt.Errorf("%w: grid row %d has %d cells, want %d", ErrArgumentRange, r, len(row), cols)
		}
	}

	guides := make([]model.GuideLineSegment, 0, (cols-1)+(rows-1))

	// Column seams. The top row alone fixes each seam's lateral position:
	// grid cells are congruent, so the midpoint between the facing edge
	// midpoints of one cell pair lies on the seam for the whole column.
	for c := 0; c < cols-1; c++ {
		origin := grid[0][c].MidRight.Midpoint(grid[0][c+1].MidLeft)
		dir := grid[0][c].DirDown
		top := [2]model.Vec3{grid[0][c].CornerTopLeft, grid[0][c].CornerTopRight}
		bottom := [2]model.Vec3{grid[rows-1][c].CornerBottomLeft, grid[rows-1][c].CornerBottomRight}

		seg, err := clipSeam(origin, dir, top, bottom, frame, padding)
		if err != nil {
			return nil, fmt.Errorf("column seam %d/%d: %w", c, c+1, err)
		}
		guides = append(guides, seg)
	}

	// Row seams, on the transposed axes.
	for r := 0; r < rows-1; r++ {
		origin := grid[r][0].MidBottom.Midpoint(grid[r+1][0].MidTop)
		dir := grid[r][0].DirRight
		left := [2]model.Vec3{grid[r][0].CornerTopLeft, grid[r][0].CornerBottomLeft}
		right := [2]model.Vec3{grid[r][cols-1].CornerTopRight, grid[r][cols-1].CornerBottomRight}

		seg, err := clipSeam(origin, dir, left, right, frame, padding)
		if err != nil {
			return nil, fmt.Errorf("row seam %d/%d: %w", r, r+1, err)
		}
		guides = append(guides, seg)
	}

	return guides, nil
}

// clipSeam intersects the infinite seam line origin + t*dir with two outer
// boundary edges and returns the padded 3D segment between the hits.
func clipSeam(origin, dir model.Vec3, edgeA, edgeB [2]model.Vec3, frame model.PlaneFrame, padding float64) (model.GuideLineSegment, error) {
	tA, err := intersectLineSegment(origin, dir, edgeA, frame)
	if err != nil {
		return model.GuideLineSegment{}, err
	}
	tB, err := intersectLineSegment(origin, dir, edgeB, frame)
	if err != nil {
		return model.GuideLineSegment{}, err
	}

	// Intersections are solved in frame coordinates but only the line
	// parameter is consumed; reconstructing the points as origin + t*dir
	// keeps everything exact in 3D.
	if tA > tB {
		tA, tB = tB, tA
	}
	return model.GuideLineSegment{
		Start: origin.Add(dir.Scale(tA - padding)),
		End:   origin.Add(dir.Scale(tB + padding)),
	}, nil
}

// intersectLineSegment solves origin + t*dir = edge[0] + s*(edge[1]-edge[0])
// in the frame's (right, up) coordinates via Cramer's rule and returns t.
// The determinant guard catches a seam running parallel to the edge; an s
// outside [0,1] beyond the tolerance means the seam misses the boundary
// edge, which a validated grid never produces. The tolerance is the larger
// of segParamTol and seamSlack expressed as a fraction of the edge, so
// the half-nudge overshoot of tiled grids is accepted.
func intersectLineSegment(origin, dir model.Vec3, edge [2]model.Vec3, frame model.PlaneFrame) (float64, error) {
	o := frame.Project(origin)
	d := model.Point2D{R: dir.Dot(frame.Right), U: dir.Dot(frame.Up)}
	a := frame.Project(edge[0])
	e := frame.Project(edge[1]).Sub(a)

	det := e.R*d.U - d.R*e.U
	if math.Abs(det) <= dirTol {
		return 0, fmt.Errorf("%w: seam direction is parallel to the boundary edge", ErrParallelIntersection)
	}

	rhs := a.Sub(o)
	t := (e.R*rhs.U - rhs.R*e.U) / det
	s := (d.R*rhs.U - rhs.R*d.U) / det
	tol := segParamTol
	if eLen := math.Hypot(e.R, e.U); eLen > 0 {
		tol = math.Max(segParamTol, seamSlack/eLen)
	}
	if s < -tol || s > 1+tol {
		return 0, fmt.Errorf("%w: segment parameter %g", ErrSeamMiss, s)
	}
	return t, nil
}

// ArrangeGrid lays an inference result's regions out as the row-major grid
// BuildGuides consumes. Every cell of the result must be backed by a region
// in rects.
func ArrangeGrid(rects []model.OrientedRect, res model.GridInferenceResult) ([][]model.OrientedRect, error) {
	byID := make(map[string]model.OrientedRect, len(rects))
	for _, r := range rects {
		byID[r.ID] = r
	}

	grid := make([][]model.OrientedRect, res.Rows)
	for r := range grid {
		grid[r] = make([]model.OrientedRect, res.Cols)
	}
	seen := 0
	for id, idx := range res.Cells {
		rect, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: inference result references unknown region %q", ErrArgumentRange, id)
		}
		if idx.Row < 0 || idx.Row >= res.Rows || idx.Col < 0 || idx.Col >= res.Cols {
			return nil, fmt.Errorf("%w: cell %v outside %dx%d grid", ErrArgumentRange, idx, res.Rows, res.Cols)
		}
		grid[idx.Row][idx.Col] = rect
		seen++
	}
	if seen != res.Rows*res.Cols {
		return nil, fmt.Errorf("%w: %d cells mapped, want %d", ErrArgumentRange, seen, res.Rows*res.Cols)
	}
	return grid, nil
}
