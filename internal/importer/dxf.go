// Package importer reads region outlines from DXF files. Closed shapes
// (LWPOLYLINE, CIRCLE, or chains of connected LINEs/ARCs) each become a
// separate Region whose boundary lies in the world XY plane.
package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/PanelGrid/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Regions  []model.Region
	Errors   []string
	Warnings []string
}

// pt is a 2D drawing coordinate.
type pt struct {
	X, Y float64
}

// seg is one boundary edge between two drawing points. Edges interpolated
// from arcs or bulged polyline vertices are marked curved so that later
// stages can tell true corners from sampled ones.
type seg struct {
	start, end pt
	curved     bool
}

// chainTolerance is the maximum endpoint distance for two loose segments
// to be considered connected.
const chainTolerance = 0.01

// ImportDXF imports regions from a DXF file. Each closed shape becomes a
// Region with a 3D boundary at Z=0. Unsupported entity types are skipped.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var loops [][]seg
	var loose []seg

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			loop := polylineLoop(e)
			if len(loop) >= 3 {
				loops = append(loops, loop)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			loops = append(loops, circleLoop(e, 64))

		case *entity.Arc:
			loose = append(loose, arcSegs(e, 32)...)

		case *entity.Line:
			loose = append(loose, seg{
				start: pt{X: e.Start[0], Y: e.Start[1]},
				end:   pt{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	// Chain loose segments (LINEs and ARCs) into closed loops
	loops = append(loops, chainLoops(loose, chainTolerance)...)

	if len(loops) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	regionNum := 0
	for _, loop := range loops {
		width, height := loopExtent(loop)
		if width < 0.01 || height < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", width, height))
			continue
		}

		regionNum++
		region := model.NewRegion(fmt.Sprintf("DXF Region %d", regionNum), loopBoundary(loop))
		result.Regions = append(result.Regions, region)
	}

	if len(result.Regions) == 0 {
		result.Errors = append(result.Errors, "No usable shapes found in DXF file")
	}

	return result
}

// loopBoundary converts a 2D loop to 3D boundary segments at Z=0.
func loopBoundary(loop []seg) []model.Segment {
	boundary := make([]model.Segment, len(loop))
	for i, s := range loop {
		boundary[i] = model.Segment{
			Start:  model.Vec3{X: s.start.X, Y: s.start.Y},
			End:    model.Vec3{X: s.end.X, Y: s.end.Y},
			Curved: s.curved,
		}
	}
	return boundary
}

// polylineLoop converts a DXF LWPOLYLINE entity to a closed segment loop.
// Bulge values on vertices produce interpolated curved segments.
func polylineLoop(lw *entity.LwPolyline) []seg {
	var loop []seg

	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		v := lw.Vertices[i]
		current := pt{X: v[0], Y: v[1]}
		next := pt{X: lw.Vertices[(i+1)%n][0], Y: lw.Vertices[(i+1)%n][1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			for j := 0; j < len(arcPts)-1; j++ {
				loop = append(loop, seg{start: arcPts[j], end: arcPts[j+1], curved: true})
			}
		} else {
			loop = append(loop, seg{start: current, end: next})
		}
	}

	return loop
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 pt, bulge float64, numSegments int) []pt {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []pt{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Arc center sits on the perpendicular through the chord midpoint
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make([]pt, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, pt{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleLoop approximates a circle as a closed loop of curved segments.
func circleLoop(c *entity.Circle, numSegments int) []seg {
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	at := func(i int) pt {
		angle := 2 * math.Pi * float64(i%numSegments) / float64(numSegments)
		return pt{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}

	loop := make([]seg, numSegments)
	for i := 0; i < numSegments; i++ {
		loop[i] = seg{start: at(i), end: at(i + 1), curved: true}
	}
	return loop
}

// arcSegs converts a DXF ARC entity to interpolated curved segments.
func arcSegs(a *entity.Arc, numSegments int) []seg {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	segs := make([]seg, 0, numSegments)
	prev := pt{X: cx + r*math.Cos(startRad), Y: cy + r*math.Sin(startRad)}
	for i := 1; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		next := pt{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
		segs = append(segs, seg{start: prev, end: next, curved: true})
		prev = next
	}
	return segs
}

// chainLoops connects individual segments into closed loops. tolerance is
// the maximum distance between endpoints to consider them connected. Open
// chains are dropped.
func chainLoops(segs []seg, tolerance float64) [][]seg {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var loops [][]seg

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []seg{segs[startIdx]}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1].end

			for i, s := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, s.start, tolerance) {
					chain = append(chain, s)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, s.end, tolerance) {
					chain = append(chain, seg{start: s.end, end: s.start, curved: s.curved})
					used[i] = true
					changed = true
					break
				}
			}
		}

		closed := pointsClose(chain[0].start, chain[len(chain)-1].end, tolerance)
		if closed && len(chain) >= 3 {
			loops = append(loops, chain)
		}
	}

	// Sort loops by area (largest first) for consistent ordering
	sort.Slice(loops, func(i, j int) bool {
		return loopArea(loops[i]) > loopArea(loops[j])
	})

	return loops
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b pt, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// loopArea computes the absolute area of a loop using the shoelace formula
// over segment start points.
func loopArea(loop []seg) float64 {
	n := len(loop)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		a, b := loop[i].start, loop[(i+1)%n].start
		area += a.X * b.Y
		area -= b.X * a.Y
	}
	return math.Abs(area) / 2
}

// loopExtent returns the bounding-box width and height of a loop.
func loopExtent(loop []seg) (float64, float64) {
	if len(loop) == 0 {
		return 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range loop {
		for _, p := range []pt{s.start, s.end} {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return maxX - minX, maxY - minY
}
