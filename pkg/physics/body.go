package physics

import (
	"errors"
	"fmt"
	"math"
)

// Body construction errors.
var (
	ErrInvalidWeight = errors.New("body weight must be positive")
	ErrInvalidRadius = errors.New("body radius must not be negative")
	ErrInvalidHealth = errors.New("body health values must be finite")
)

// Body is the physical state shared by every arena entity: kinematics,
// inertia, collision circle and health.
type Body struct {
	Position Vector2D
	Velocity Vector2D
	Rot      float64 // degrees, [0, 360)
	RotVel   float64 // degrees per second
	Weight   float64
	Radius   float64
	HP       float64
	MaxHP    float64
	HPRegen  float64 // per second, may be negative
}

// NewBody validates b and returns it. A body with non-positive weight is
// rejected here so Push never divides by zero.
func NewBody(b Body) (Body, error) {
	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	b.Rot = WrapDegrees(b.Rot)
	return b, nil
}

// Validate checks the invariants every stored body must satisfy.
func (b *Body) Validate() error {
	if !(b.Weight > 0) || math.IsInf(b.Weight, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, b.Weight)
	}
	if !(b.Radius >= 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, b.Radius)
	}
	for _, v := range []float64{b.HP, b.MaxHP, b.HPRegen} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidHealth
		}
	}
	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		return errors.New("body position and velocity must be finite")
	}
	return nil
}

// Push applies a one-time force, changing velocity by force/weight.
func (b *Body) Push(force Vector2D) {
	b.Velocity = b.Velocity.Add(force.Scale(1 / b.Weight))
}

// PushRot applies a one-time torque.
func (b *Body) PushRot(torque float64) {
	b.RotVel += torque / b.Weight
}

// Update advances the body by dt seconds. Friction is exponential decay, so
// the step is stable for any dt. Health regenerates up to MaxHP and is never
// raised back above zero here; a non-positive HP is the death signal.
func (b *Body) Update(dt, friction float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Rot = WrapDegrees(b.Rot + b.RotVel*dt)

	decay := math.Exp(-friction * dt)
	b.Velocity = b.Velocity.Scale(decay)
	b.RotVel *= decay

	b.HP = math.Min(b.HP+b.HPRegen*dt, b.MaxHP)
}

// Damp multiplies velocity by exp(-k*dt).
func (b *Body) Damp(k, dt float64) {
	b.Velocity = b.Velocity.Scale(math.Exp(-k * dt))
}

// Distance returns the center-to-center distance to other.
func (b *Body) Distance(other *Body) float64 {
	return b.Position.Distance(other.Position)
}

// Speed returns the magnitude of the velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Length()
}

// Collides is the authoritative narrow-phase test.
func (b *Body) Collides(other *Body) bool {
	return b.Circle().Collides(other.Circle())
}

// Circle returns the body's collision circle.
func (b *Body) Circle() Circle {
	return Circle{Center: b.Position, Radius: b.Radius}
}

// Dead reports whether health has reached zero.
func (b *Body) Dead() bool {
	return b.HP <= 0
}

// HPRatio returns HP/MaxHP clamped to [0, 1].
func (b *Body) HPRatio() float64 {
	if b.MaxHP <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, b.HP/b.MaxHP))
}

// Facing returns the unit vector the body points along.
func (b *Body) Facing() Vector2D {
	return Heading(b.Rot)
}
