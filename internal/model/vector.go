// Package model defines the geometric data types shared by the PanelGrid
// engine and its importers and exporters: 3D vectors, plane frames, region
// boundaries, oriented-rectangle snapshots, and grid results.
package model

import "math"

// Vec3 represents a 3D point or vector in world coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale scales a vector by a scalar.
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Distance returns the Euclidean distance between two points.
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Length() }

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Midpoint returns the point halfway between two points.
func (v Vec3) Midpoint(o Vec3) Vec3 { return v.Add(o).Scale(0.5) }

// Point2D represents a point in the (right, up) coordinates of a PlaneFrame.
type Point2D struct {
	R float64 `json:"r"`
	U float64 `json:"u"`
}

// Sub returns the difference between two 2D points.
func (p Point2D) Sub(q Point2D) Point2D { return Point2D{p.R - q.R, p.U - q.U} }

// Distance returns the Euclidean distance between two 2D points.
func (p Point2D) Distance(q Point2D) float64 {
	dr := p.R - q.R
	du := p.U - q.U
	return math.Sqrt(dr*dr + du*du)
}
