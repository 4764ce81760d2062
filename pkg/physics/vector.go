// pkg/physics/vector.go
package physics

import "math"

// Vector2D is a point or direction in arena space. Y grows downward, matching
// screen coordinates, so a facing of 0 degrees points at -Y.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself instead of NaN.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 || math.IsNaN(length) {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// Limit caps the magnitude of the vector at max.
func (v Vector2D) Limit(max float64) Vector2D {
	if l := v.Length(); l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// Distance returns the distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Angle returns the mathematical angle of the vector in radians
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotateDeg rotates the vector clockwise (on screen) by deg degrees.
func (v Vector2D) RotateDeg(deg float64) Vector2D {
	return v.Rotate(deg * math.Pi / 180)
}

// IsFinite reports whether both components are finite numbers.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// FromAngle creates a vector from an angle (radians) and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Heading returns the unit vector for an arena facing in degrees.
// 0 points up (-Y), 90 points right (+X).
func Heading(deg float64) Vector2D {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Vector2D{X: sin, Y: -cos}
}

// HeadingAngle is the inverse of Heading: the facing in degrees, in [0, 360),
// that points along v. The zero vector yields 0.
func HeadingAngle(v Vector2D) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return WrapDegrees(math.Atan2(v.X, -v.Y) * 180 / math.Pi)
}

// WrapDegrees maps any angle onto [0, 360).
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleDelta returns the signed shortest rotation from one facing to another,
// in (-180, 180].
func AngleDelta(from, to float64) float64 {
	d := WrapDegrees(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}
