// pkg/entity/turret.go
package entity

import (
	"math"

	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
)

// Turret is one barrel of a tank.
type Turret struct {
	Impulse          float64 `json:"impulse"`
	ProjectileWeight float64 `json:"projectile_weight"`
	ProjectileRadius float64 `json:"projectile_radius"`
	ProjectileHP     float64 `json:"projectile_hp"`
	ProjectileRegen  float64 `json:"projectile_regen"`
	// Reload is the delay between shots in seconds; Cooldown is the time
	// left until the next one.
	Reload   float64 `json:"reload"`
	Cooldown float64 `json:"-"`
	// Inaccuracy is the std-dev, in degrees, of the launch direction.
	Inaccuracy float64 `json:"inaccuracy"`
	// Offset is the muzzle position relative to the tank facing up.
	Offset    physics.Vector2D `json:"offset"`
	Direction float64          `json:"direction"`
	Kind      ProjectileKind   `json:"kind"`
}

// Ready reports whether the turret can fire now.
func (t *Turret) Ready() bool {
	return t.Cooldown <= 0
}

// Fire launches a projectile from a tank with the given body. It returns
// false while the turret is reloading.
func (t *Turret) Fire(body *physics.Body, firer ID, rng *random.Source) (*Projectile, bool) {
	if !t.Ready() {
		return nil, false
	}

	impulse := t.Impulse
	direction := body.Rot + t.Direction
	if t.Inaccuracy != 0 {
		direction += rng.Gaussian(0, t.Inaccuracy)
		impulse = rng.Gaussian(impulse, impulse*t.Inaccuracy/100)
	}

	pb := *body
	pb.Position = body.Position.Add(t.Offset.RotateDeg(body.Rot))
	pb.Rot = physics.WrapDegrees(direction)
	pb.RotVel = 0
	pb.Weight = t.ProjectileWeight
	pb.Radius = t.ProjectileRadius
	pb.HP = t.ProjectileHP
	pb.MaxHP = t.ProjectileHP
	pb.HPRegen = t.ProjectileRegen
	pb.Push(physics.Heading(direction).Scale(impulse))

	t.Cooldown = t.Reload
	return &Projectile{Body: pb, Type: t.Kind, Firer: firer}, true
}

// Tick counts the reload down by dt.
func (t *Turret) Tick(dt float64) {
	t.Cooldown = math.Max(0, t.Cooldown-dt)
}

// Scale applies upgrade multipliers to the turret's projectile stats.
func (t *Turret) Scale(m Multipliers) {
	t.Reload /= factor(m.Reload)
	t.Impulse *= factor(m.ProjectileImpulse)
	t.ProjectileHP *= factor(m.ProjectileHP)
	t.ProjectileWeight *= factor(m.ProjectileWeight)
	t.ProjectileRadius *= factor(m.ProjectileRadius)
}
