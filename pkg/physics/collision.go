// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are overlapping. Touching circles do not collide.
func (c Circle) Collides(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.Sub(other.Center).LengthSquared() < r*r
}

// MinX and MaxX bound the circle on the sweep axis.
func (c Circle) MinX() float64 { return c.Center.X - c.Radius }
func (c Circle) MaxX() float64 { return c.Center.X + c.Radius }

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D // unit vector from A toward B, zero when centers coincide
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles
func CheckCollision(a, b Circle) CollisionResult {
	// Vector from A to B
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	normal = normal.Normalize()
	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}
