package wire

import "math"

// Vector is a 2-D position or movement vector. Grounded in the original
// connector's Vector (packet.rs): angle() degrades gracefully to the last
// known heading when the vector is the zero vector, so a stopped unit
// keeps reporting the heading it was last facing instead of snapping to 0.
type Vector struct {
	X, Y      float64
	lastAngle float64
}

// NewVector builds a vector from cartesian coordinates.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// VectorFromAngleLength builds a vector from a heading in degrees and a
// magnitude.
func VectorFromAngleLength(angleDegrees, length float64) Vector {
	rad := angleDegrees * math.Pi / 180
	return NewVector(math.Cos(rad)*length, math.Sin(rad)*length)
}

// Length returns the magnitude of the vector.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the heading in degrees, in [0, 360). For the zero vector
// it returns the last non-zero heading recorded via SetAngle/RotatedBy.
func (v Vector) Angle() float64 {
	if v.X == 0 && v.Y == 0 {
		return v.lastAngle
	}
	deg := math.Atan2(v.Y, v.X)*180/math.Pi + 360
	return math.Mod(deg, 360)
}

// SetAngle returns a copy of v turned to the given heading in degrees,
// preserving its length; v itself is not modified.
func (v Vector) SetAngle(degrees float64) Vector {
	length := v.Length()
	rad := degrees * math.Pi / 180
	out := NewVector(length*math.Cos(rad), length*math.Sin(rad))
	out.lastAngle = math.Mod(degrees+360, 360)
	return out
}

// RotatedBy returns a copy of v rotated by degrees.
func (v Vector) RotatedBy(degrees float64) Vector {
	return v.SetAngle(v.Angle() + degrees)
}

// IsFinite reports whether both components are finite, the precondition
// the controllable API enforces on move/shoot direction vectors.
func (v Vector) IsFinite() bool {
	return !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsNaN(v.X) && !math.IsNaN(v.Y)
}
