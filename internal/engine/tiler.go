package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/piwi3910/PanelGrid/internal/model"
)

// TileOptions controls grid tiling. The zero value uses the default nudge
// and attaches no labels.
type TileOptions struct {
	// Nudge is the extra distance added to a step when the overlap is
	// exactly zero; zero means use model.DefaultEngineConfig().Nudge.
	Nudge float64
	// Label, when non-nil, supplies a per-cell label attached as metadata.
	Label func(row, col int) string
}

// ComputeStepVector derives the translation for one row or column increment
// from the in-plane span between two opposite edge midpoints. A positive
// overlap shortens the step so adjacent cells interpenetrate, zero means
// exact touching (plus the nudge) and a negative overlap opens a gap.
func ComputeStepVector(from, to, normal model.Vec3, overlap, nudge float64) (model.Vec3, error) {
	span := to.Sub(from)
	span = span.Sub(normal.Scale(span.Dot(normal)))
	length := span.Length()
	if length <= dirTol {
		return model.Vec3{}, fmt.Errorf("%w: edge midpoints coincide in plane", ErrDegenerateSpan)
	}
	axis := span.Scale(1 / length)

	move := length - overlap
	if math.Abs(overlap) < geomTol {
		move += nudge
	}
	return axis.Scale(move), nil
}

// BuildGrid tiles the seed rectangle into a rows x cols grid and returns the
// placements in row-major order. Each cell's offset is the single
// translation colStep*c + rowStep*r measured from the seed, never a chain of
// successive copies, so floating-point drift does not accumulate across a
// large grid. Cell (0,0) is the seed itself with a zero offset.
//
// Creating or moving actual geometry is the caller's concern; the builder
// only returns geometric placements.
func BuildGrid(seed model.OrientedRect, rows, cols int, overlapX, overlapY float64, opts TileOptions) ([]model.CellPlacement, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d, both must be >= 1", ErrArgumentRange, rows, cols)
	}

	nudge := opts.Nudge
	if nudge == 0 {
		nudge = model.DefaultEngineConfig().Nudge
	}

	normal := seed.Frame.Normal
	colStep, err := ComputeStepVector(seed.MidLeft, seed.MidRight, normal, overlapX, nudge)
	if err != nil {
		return nil, fmt.Errorf("column step: %w", err)
	}
	rowStep, err := ComputeStepVector(seed.MidTop, seed.MidBottom, normal, overlapY, nudge)
	if err != nil {
		return nil, fmt.Errorf("row step: %w", err)
	}

	placements := make([]model.CellPlacement, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := model.CellPlacement{
				Index:  model.GridCellIndex{Row: r, Col: c},
				Offset: colStep.Scale(float64(c)).Add(rowStep.Scale(float64(r))),
			}
			if opts.Label != nil {
				p.Label = opts.Label(r, c)
			}
			placements = append(placements, p)
		}
	}
	return placements, nil
}

// PlaceGrid applies BuildGrid's offsets to the seed and returns the placed
// rectangles in row-major order, for callers that want the cells themselves
// rather than the translations. Every cell except (0,0) is a new region and
// receives a fresh ID; the seed cell keeps its own.
func PlaceGrid(seed model.OrientedRect, placements []model.CellPlacement) []model.OrientedRect {
	rects := make([]model.OrientedRect, 0, len(placements))
	for _, p := range placements {
		rect := seed.Translated(p.Offset)
		if p.Index != (model.GridCellIndex{}) {
			rect.ID = uuid.New().String()[:8]
		}
		if p.Label != "" {
			rect.Label = p.Label
		}
		rects = append(rects, rect)
	}
	return rects
}
