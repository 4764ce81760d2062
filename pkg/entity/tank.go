// pkg/entity/tank.go
package entity

import (
	"slices"

	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
)

const (
	// AimGain converts a heading error in degrees into a target turn rate.
	AimGain = 8.0
	// BrakeDamping is the extra velocity decay applied while a tank has no
	// movement input.
	BrakeDamping = 2.0
)

// Tank is a player or bot controlled entity.
type Tank struct {
	physics.Body
	Class    string
	Power    float64
	RotPower float64
	Turrets  []Turret

	// Owned holds the ids of live projectiles this tank fired.
	Owned        map[ID]struct{}
	LastAttacker OptionalID
	// XP is everything the tank has earned in its life.
	XP float64

	AimPoint physics.Vector2D
	MoveDir  physics.Vector2D
	Firing   bool

	MaxDrones int
	Infects   []ShapeKind
}

// KillValue is the XP a tank's killer receives.
func (t *Tank) KillValue() float64 {
	return t.XP / 2
}

// Own records id as one of the tank's projectiles.
func (t *Tank) Own(id ID) {
	if t.Owned == nil {
		t.Owned = make(map[ID]struct{})
	}
	t.Owned[id] = struct{}{}
}

// Disown forgets a projectile.
func (t *Tank) Disown(id ID) {
	delete(t.Owned, id)
}

// Owns reports whether id is one of the tank's live projectiles.
func (t *Tank) Owns(id ID) bool {
	_, ok := t.Owned[id]
	return ok
}

// OwnedCount returns the number of live projectiles the tank owns.
func (t *Tank) OwnedCount() int {
	return len(t.Owned)
}

// Steer pushes the tank along dir with its full power. dir need not be
// normalized; a zero dir brakes.
func (t *Tank) Steer(dir physics.Vector2D, dt float64) {
	n := dir.Normalize()
	if n == (physics.Vector2D{}) {
		t.Damp(BrakeDamping, dt)
		return
	}
	t.Push(n.Scale(t.Power * dt))
}

// AimAt turns the tank toward point. The applied torque is proportional to
// the heading error and opposes the current spin, so the tank settles on
// the target instead of orbiting it.
func (t *Tank) AimAt(point physics.Vector2D, dt float64) {
	t.AimPoint = point
	to := point.Sub(t.Position)
	if to.LengthSquared() == 0 {
		return
	}
	diff := physics.AngleDelta(t.Rot, physics.HeadingAngle(to))
	t.PushRot((diff*AimGain - t.RotVel) * t.RotPower * dt)
}

// Fire triggers every ready turret that allow accepts (all of them when
// allow is nil) and returns the new projectiles. The caller assigns ids and
// records ownership.
func (t *Tank) Fire(self ID, rng *random.Source, allow func(*Turret) bool) []*Projectile {
	var out []*Projectile
	for i := range t.Turrets {
		tr := &t.Turrets[i]
		if !tr.Ready() || (allow != nil && !allow(tr)) {
			continue
		}
		if p, ok := tr.Fire(&t.Body, self, rng); ok {
			out = append(out, p)
		}
	}
	return out
}

// TickTurrets advances every turret's reload.
func (t *Tank) TickTurrets(dt float64) {
	for i := range t.Turrets {
		t.Turrets[i].Tick(dt)
	}
}

// SpawnerLike reports whether the tank launches drones it steers.
func (t *Tank) SpawnerLike() bool {
	for _, tr := range t.Turrets {
		if tr.Kind == Drone {
			return true
		}
	}
	return false
}

// CanInfect reports whether killing a shape of kind k with one of this
// tank's projectiles converts it into a drone.
func (t *Tank) CanInfect(k ShapeKind) bool {
	return slices.Contains(t.Infects, k)
}
