package model

import "github.com/google/uuid"

// Segment is one straight piece of a region's boundary in world coordinates.
// Curved source entities (arcs, splines) are flagged so the inspector can
// treat their endpoints appropriately.
type Segment struct {
	Start  Vec3 `json:"start"`
	End    Vec3 `json:"end"`
	Curved bool `json:"curved,omitempty"`
}

// Direction returns the segment's direction vector (not normalized).
func (s Segment) Direction() Vec3 { return s.End.Sub(s.Start) }

// Region identifies one source region and its raw boundary geometry, with
// any nested coordinate transforms already flattened to world coordinates.
type Region struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Boundary []Segment `json:"boundary"`
}

// NewRegion creates a region with a fresh short ID.
func NewRegion(label string, boundary []Segment) Region {
	return Region{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Boundary: boundary,
	}
}

// OrientedRect is a rotation-invariant snapshot of one rectangular region as
// seen in a PlaneFrame. It is constructed once by the inspector from a
// snapshot of boundary geometry and never mutated; when the underlying
// geometry changes it must be re-derived.
type OrientedRect struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`

	Center Vec3 `json:"center"`

	CornerTopLeft     Vec3 `json:"corner_top_left"`
	CornerTopRight    Vec3 `json:"corner_top_right"`
	CornerBottomLeft  Vec3 `json:"corner_bottom_left"`
	CornerBottomRight Vec3 `json:"corner_bottom_right"`

	MidTop    Vec3 `json:"mid_top"`
	MidRight  Vec3 `json:"mid_right"`
	MidBottom Vec3 `json:"mid_bottom"`
	MidLeft   Vec3 `json:"mid_left"`

	// DirRight and DirDown are unit in-plane vectors along the top and left
	// edges. DirDown always points away from the frame's Up.
	DirRight Vec3 `json:"dir_right"`
	DirDown  Vec3 `json:"dir_down"`

	// Width and Height are edge-midpoint distances (MidLeft-MidRight and
	// MidTop-MidBottom), not bounding-box extents, so they stay correct
	// under rotation.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// AngleToFrameRight is the signed angle in radians between DirRight and
	// the frame's Right, positive when DirRight sits clockwise of Right as
	// seen along the frame normal.
	AngleToFrameRight float64 `json:"angle_to_frame_right"`

	// Frame is the plane the snapshot was taken in.
	Frame PlaneFrame `json:"frame"`
}

// DegenerateSize is the width/height threshold below which a rectangle is
// considered degenerate.
const DegenerateSize = 1e-9

// IsDegenerate reports whether the rectangle collapsed to a line or point.
func (r OrientedRect) IsDegenerate() bool {
	return r.Width <= DegenerateSize || r.Height <= DegenerateSize
}

// Corners returns the four corners in top-left, top-right, bottom-right,
// bottom-left order, suitable for drawing the outline.
func (r OrientedRect) Corners() [4]Vec3 {
	return [4]Vec3{r.CornerTopLeft, r.CornerTopRight, r.CornerBottomRight, r.CornerBottomLeft}
}

// Translated returns a copy of the rectangle with every point shifted by
// offset. Directions, sizes and angle are unaffected.
func (r OrientedRect) Translated(offset Vec3) OrientedRect {
	out := r
	out.Center = r.Center.Add(offset)
	out.CornerTopLeft = r.CornerTopLeft.Add(offset)
	out.CornerTopRight = r.CornerTopRight.Add(offset)
	out.CornerBottomLeft = r.CornerBottomLeft.Add(offset)
	out.CornerBottomRight = r.CornerBottomRight.Add(offset)
	out.MidTop = r.MidTop.Add(offset)
	out.MidRight = r.MidRight.Add(offset)
	out.MidBottom = r.MidBottom.Add(offset)
	out.MidLeft = r.MidLeft.Add(offset)
	return out
}
