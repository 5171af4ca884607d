package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/PanelGrid/internal/model"
)

// rectBoundary builds the four boundary segments of a w x h rectangle
// centered at (cx, cy) in the XY plane, rotated by theta radians about its
// center.
func rectBoundary(cx, cy, w, h, theta float64) []model.Segment {
	cos, sin := math.Cos(theta), math.Sin(theta)
	local := [4][2]float64{
		{-w / 2, h / 2},
		{w / 2, h / 2},
		{w / 2, -h / 2},
		{-w / 2, -h / 2},
	}
	var corners [4]model.Vec3
	for i, l := range local {
		corners[i] = model.Vec3{
			X: cx + l[0]*cos - l[1]*sin,
			Y: cy + l[0]*sin + l[1]*cos,
		}
	}
	segs := make([]model.Segment, 4)
	for i := range corners {
		segs[i] = model.Segment{Start: corners[i], End: corners[(i+1)%4]}
	}
	return segs
}

// mustInspect inspects a rectangle boundary in the XY frame, failing the
// test on error.
func mustInspect(t *testing.T, cx, cy, w, h, theta float64) model.OrientedRect {
	t.Helper()
	rect, err := Inspect(model.NewRegion("test", rectBoundary(cx, cy, w, h, theta)), model.XYFrame())
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	return rect
}
