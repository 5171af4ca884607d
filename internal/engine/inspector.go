// Package engine implements the PanelGrid geometry core: extracting oriented
// rectangle snapshots from boundary geometry, tiling a seed rectangle into a
// grid, recovering grid topology from an unordered selection, and computing
// boundary-clipped seam guide lines.
//
// Every operation is a pure function of its inputs. Nothing in this package
// holds state between calls, so concurrent use on disjoint inputs is safe.
package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/PanelGrid/internal/model"
)

const (
	// geomTol is the distance tolerance for point deduplication and size
	// degeneracy checks.
	geomTol = 1e-9
	// dirTol is the guard on edge lengths and intersection determinants.
	dirTol = 1e-12
)

// Inspect converts a region's raw boundary into an OrientedRect snapshot in
// the given frame. It fails with ErrInsufficientGeometry when fewer than
// four distinct in-plane points are found, and with ErrDegenerateRegion when
// the region collapses along either axis.
func Inspect(region model.Region, frame model.PlaneFrame) (model.OrientedRect, error) {
	// Collect endpoints of straight segments lying in (or parallel to) the
	// plane. Curved segments contribute their endpoints unconditionally.
	var raw []model.Vec3
	for _, seg := range region.Boundary {
		if seg.Curved || frame.InPlane(seg.Direction(), geomTol) {
			raw = append(raw, seg.Start, seg.End)
		}
	}

	pts3 := dedup3D(raw, geomTol)

	// Project and deduplicate again in (r,u): distinct 3D points can land on
	// the same in-plane coordinates.
	var pts2 []model.Point2D
	var kept []model.Vec3
	for _, p := range pts3 {
		q := frame.Project(p)
		dup := false
		for _, e := range pts2 {
			if q.Distance(e) <= geomTol {
				dup = true
				break
			}
		}
		if !dup {
			pts2 = append(pts2, q)
			kept = append(kept, p)
		}
	}

	if len(pts2) < 4 {
		return model.OrientedRect{}, fmt.Errorf("%w: found %d distinct in-plane points, need 4",
			ErrInsufficientGeometry, len(pts2))
	}

	minR, maxR := pts2[0].R, pts2[0].R
	minU, maxU := pts2[0].U, pts2[0].U
	for _, q := range pts2[1:] {
		minR = math.Min(minR, q.R)
		maxR = math.Max(maxR, q.R)
		minU = math.Min(minU, q.U)
		maxU = math.Max(maxU, q.U)
	}

	// For each coordinate extreme, the closest actual point becomes the
	// corner. Picks exclude points already taken: at symmetric rotations
	// (a square at exactly 45 degrees) two extremes are equidistant from
	// the same point, and the four corners must stay distinct.
	taken := make([]bool, len(pts2))
	tl := nearestTo(model.Point2D{R: minR, U: maxU}, pts2, kept, taken)
	tr := nearestTo(model.Point2D{R: maxR, U: maxU}, pts2, kept, taken)
	bl := nearestTo(model.Point2D{R: minR, U: minU}, pts2, kept, taken)
	br := nearestTo(model.Point2D{R: maxR, U: minU}, pts2, kept, taken)

	edgeRight := frame.ProjectVec(tr.Sub(tl))
	edgeDown := frame.ProjectVec(bl.Sub(tl))
	if edgeDown.Dot(frame.Up) > 0 {
		edgeDown = edgeDown.Scale(-1)
	}
	if edgeRight.Length() <= dirTol || edgeDown.Length() <= dirTol {
		return model.OrientedRect{}, fmt.Errorf("%w: boundary edges collapse in plane", ErrDegenerateRegion)
	}
	dirRight := edgeRight.Normalize()
	dirDown := edgeDown.Normalize()

	midTop := tl.Midpoint(tr)
	midBottom := bl.Midpoint(br)
	midLeft := tl.Midpoint(bl)
	midRight := tr.Midpoint(br)

	// Edge-midpoint distances, not bounding-box spans: the bounding box
	// grows with rotation, the midpoint distances do not.
	width := midLeft.Distance(midRight)
	height := midTop.Distance(midBottom)
	if width <= model.DegenerateSize || height <= model.DegenerateSize {
		return model.OrientedRect{}, fmt.Errorf("%w: %g x %g", ErrDegenerateRegion, width, height)
	}

	center := tl.Add(tr).Add(bl).Add(br).Scale(0.25)

	// Sign convention: positive when DirRight is rotated clockwise from the
	// frame's Right as seen along Normal.
	angle := math.Atan2(dirRight.Cross(frame.Right).Dot(frame.Normal), dirRight.Dot(frame.Right))

	return model.OrientedRect{
		ID:                region.ID,
		Label:             region.Label,
		Center:            center,
		CornerTopLeft:     tl,
		CornerTopRight:    tr,
		CornerBottomLeft:  bl,
		CornerBottomRight: br,
		MidTop:            midTop,
		MidRight:          midRight,
		MidBottom:         midBottom,
		MidLeft:           midLeft,
		DirRight:          dirRight,
		DirDown:           dirDown,
		Width:             width,
		Height:            height,
		AngleToFrameRight: angle,
		Frame:             frame,
	}, nil
}

// InspectAll inspects every region, failing fast on the first bad boundary
// with the region's label attached.
func InspectAll(regions []model.Region, frame model.PlaneFrame) ([]model.OrientedRect, error) {
	rects := make([]model.OrientedRect, 0, len(regions))
	for _, reg := range regions {
		rect, err := Inspect(reg, frame)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", reg.Label, err)
		}
		rects = append(rects, rect)
	}
	return rects, nil
}

// dedup3D removes points closer than tol to an earlier point.
func dedup3D(pts []model.Vec3, tol float64) []model.Vec3 {
	var out []model.Vec3
	for _, p := range pts {
		dup := false
		for _, e := range out {
			if p.Distance(e) <= tol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// nearestTo returns the 3D point whose projection is closest to target,
// skipping points already claimed by an earlier corner, and marks the pick.
func nearestTo(target model.Point2D, pts2 []model.Point2D, pts3 []model.Vec3, taken []bool) model.Vec3 {
	best := -1
	bestDist := math.Inf(1)
	for i := range pts2 {
		if taken[i] {
			continue
		}
		if d := pts2[i].Distance(target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	taken[best] = true
	return pts3[best]
}
