package model

// PlaneFrame is the working plane for all projections: Right and Up span the
// plane and Normal is perpendicular to it. Right and Up must each be unit
// length and orthogonal to Normal; they are not required to be orthogonal to
// each other.
type PlaneFrame struct {
	Right  Vec3 `json:"right"`
	Up     Vec3 `json:"up"`
	Normal Vec3 `json:"normal"`
}

// XYFrame returns the standard frame with Right along +X, Up along +Y and
// Normal along +Z. This is the working plane for flat DXF drawings.
func XYFrame() PlaneFrame {
	return PlaneFrame{
		Right:  Vec3{X: 1},
		Up:     Vec3{Y: 1},
		Normal: Vec3{Z: 1},
	}
}

// Project returns the scalar (right, up) coordinates of a point.
func (f PlaneFrame) Project(p Vec3) Point2D {
	return Point2D{R: p.Dot(f.Right), U: p.Dot(f.Up)}
}

// ProjectVec removes the component of v along the frame normal, leaving the
// in-plane part of the vector.
func (f PlaneFrame) ProjectVec(v Vec3) Vec3 {
	return v.Sub(f.Normal.Scale(v.Dot(f.Normal)))
}

// InPlane reports whether a direction lies in (or parallel to) the plane,
// i.e. is perpendicular to the normal within tol.
func (f PlaneFrame) InPlane(dir Vec3, tol float64) bool {
	d := dir.Normalize().Dot(f.Normal)
	return d > -tol && d < tol
}
