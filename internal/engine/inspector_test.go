package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelGrid/internal/model"
)

func TestInspect_AxisAligned(t *testing.T) {
	rect := mustInspect(t, 5, -5, 10, 10, 0)

	assert.InDelta(t, 5, rect.Center.X, 1e-12)
	assert.InDelta(t, -5, rect.Center.Y, 1e-12)
	assert.InDelta(t, 0, rect.CornerTopLeft.Distance(model.Vec3{X: 0, Y: 0}), 1e-12)
	assert.InDelta(t, 0, rect.CornerTopRight.Distance(model.Vec3{X: 10, Y: 0}), 1e-12)
	assert.InDelta(t, 0, rect.CornerBottomLeft.Distance(model.Vec3{X: 0, Y: -10}), 1e-12)
	assert.InDelta(t, 0, rect.CornerBottomRight.Distance(model.Vec3{X: 10, Y: -10}), 1e-12)

	assert.InDelta(t, 10, rect.Width, 1e-12)
	assert.InDelta(t, 10, rect.Height, 1e-12)
	assert.InDelta(t, 0, rect.DirRight.Distance(model.Vec3{X: 1}), 1e-12)
	assert.InDelta(t, 0, rect.DirDown.Distance(model.Vec3{Y: -1}), 1e-12)
	assert.InDelta(t, 0, rect.AngleToFrameRight, 1e-12)
	assert.False(t, rect.IsDegenerate())

	assert.InDelta(t, 0, rect.MidTop.Distance(model.Vec3{X: 5, Y: 0}), 1e-12)
	assert.InDelta(t, 0, rect.MidLeft.Distance(model.Vec3{X: 0, Y: -5}), 1e-12)
}

func TestInspect_CornerOrderingInvariance(t *testing.T) {
	// At every rotation the top edge must run against DirRight and DirDown
	// must point away from Up.
	up := model.XYFrame().Up
	for deg := 0; deg < 360; deg += 5 {
		theta := float64(deg) * math.Pi / 180
		rect := mustInspect(t, 0, 0, 10, 6, theta)

		topEdge := rect.CornerTopLeft.Sub(rect.CornerTopRight).Normalize()
		antiparallel := topEdge.Add(rect.DirRight).Length()
		assert.InDeltaf(t, 0, antiparallel, 1e-9, "theta=%d: top edge not anti-parallel to DirRight", deg)

		assert.LessOrEqualf(t, rect.DirDown.Dot(up), 1e-12, "theta=%d: DirDown points toward Up", deg)
	}
}

func TestInspect_RotationInvariantSize(t *testing.T) {
	// The same physical rectangle keeps its edge-midpoint sizes at any
	// rotation. Near the diagonal the width/height labels may swap (the
	// bounding box is symmetric there), so compare the size pair as a set.
	for _, deg := range []float64{0, 17, 45, 90, 123, 301} {
		theta := deg * math.Pi / 180
		rect := mustInspect(t, 3, 7, 10, 6, theta)

		long := math.Max(rect.Width, rect.Height)
		short := math.Min(rect.Width, rect.Height)
		assert.InDeltaf(t, 10, long, 1e-9, "theta=%v", deg)
		assert.InDeltaf(t, 6, short, 1e-9, "theta=%v", deg)
	}
}

func TestInspect_AngleMatchesRotation(t *testing.T) {
	for _, deg := range []float64{0, 17, 33, -20} {
		theta := deg * math.Pi / 180
		rect := mustInspect(t, 0, 0, 10, 6, theta)
		// A counter-clockwise rotation of the rectangle reads as a negative
		// angle under the clockwise-positive sign convention.
		assert.InDeltaf(t, -theta, rect.AngleToFrameRight, 1e-9, "theta=%v", deg)
	}
}

func TestInspect_InsufficientGeometry(t *testing.T) {
	// A triangle only has three distinct in-plane points.
	tri := []model.Segment{
		{Start: model.Vec3{}, End: model.Vec3{X: 10}},
		{Start: model.Vec3{X: 10}, End: model.Vec3{X: 5, Y: 8}},
		{Start: model.Vec3{X: 5, Y: 8}, End: model.Vec3{}},
	}
	_, err := Inspect(model.NewRegion("tri", tri), model.XYFrame())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientGeometry)
}

func TestInspect_EmptyBoundary(t *testing.T) {
	_, err := Inspect(model.NewRegion("empty", nil), model.XYFrame())
	assert.ErrorIs(t, err, ErrInsufficientGeometry)
}

func TestInspect_DegenerateRegion(t *testing.T) {
	// Four distinct but collinear points: the inspector finds corners but
	// the rectangle has zero height.
	flat := []model.Segment{
		{Start: model.Vec3{}, End: model.Vec3{X: 1}},
		{Start: model.Vec3{X: 2}, End: model.Vec3{X: 3}},
	}
	_, err := Inspect(model.NewRegion("flat", flat), model.XYFrame())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateRegion)
}

func TestInspect_IgnoresOutOfPlaneSegments(t *testing.T) {
	segs := rectBoundary(0, 0, 10, 6, 0)
	// A riser perpendicular to the plane; its endpoints would widen the
	// bounding box if counted.
	segs = append(segs, model.Segment{
		Start: model.Vec3{X: 100, Y: 100, Z: 0},
		End:   model.Vec3{X: 100, Y: 100, Z: 5},
	})
	rect, err := Inspect(model.NewRegion("r", segs), model.XYFrame())
	require.NoError(t, err)
	assert.InDelta(t, 10, rect.Width, 1e-9)
	assert.InDelta(t, 6, rect.Height, 1e-9)
}

func TestInspect_CurvedSegmentsContributeEndpoints(t *testing.T) {
	// Curved segments contribute endpoints even when their chord is not
	// in-plane. Four curved corners alone are enough to recover the rect.
	segs := []model.Segment{
		{Start: model.Vec3{Y: 0}, End: model.Vec3{X: 10}, Curved: true},
		{Start: model.Vec3{X: 10}, End: model.Vec3{X: 10, Y: -6}, Curved: true},
		{Start: model.Vec3{X: 10, Y: -6}, End: model.Vec3{Y: -6}, Curved: true},
		{Start: model.Vec3{Y: -6}, End: model.Vec3{}, Curved: true},
	}
	rect, err := Inspect(model.NewRegion("curved", segs), model.XYFrame())
	require.NoError(t, err)
	assert.InDelta(t, 10, rect.Width, 1e-9)
	assert.InDelta(t, 6, rect.Height, 1e-9)
}

func TestInspectAll_ReportsLabel(t *testing.T) {
	regions := []model.Region{
		model.NewRegion("good", rectBoundary(0, 0, 10, 6, 0)),
		model.NewRegion("bad", nil),
	}
	_, err := InspectAll(regions, model.XYFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	rects, err := InspectAll(regions[:1], model.XYFrame())
	require.NoError(t, err)
	require.Len(t, rects, 1)
	assert.Equal(t, regions[0].ID, rects[0].ID)
}
