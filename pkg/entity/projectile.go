// pkg/entity/projectile.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-arena/pkg/physics"
)

// ProjectileKind selects how a projectile behaves in collisions and on death.
type ProjectileKind int

const (
	Bullet ProjectileKind = iota
	Bomb
	MBomb
	Trap
	TrapBomb
	Drone
)

var projectileKindNames = [...]string{
	Bullet:   "bullet",
	Bomb:     "bomb",
	MBomb:    "mbomb",
	Trap:     "trap",
	TrapBomb: "trapbomb",
	Drone:    "drone",
}

func (k ProjectileKind) String() string {
	if k < 0 || int(k) >= len(projectileKindNames) {
		return fmt.Sprintf("ProjectileKind(%d)", int(k))
	}
	return projectileKindNames[k]
}

// ParseProjectileKind is the inverse of String.
func ParseProjectileKind(s string) (ProjectileKind, error) {
	for k, name := range projectileKindNames {
		if name == s {
			return ProjectileKind(k), nil
		}
	}
	return Bullet, fmt.Errorf("unknown projectile kind %q", s)
}

func (k ProjectileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ProjectileKind) UnmarshalText(data []byte) error {
	parsed, err := ParseProjectileKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Explosive kinds burst into shrapnel when they die.
func (k ProjectileKind) Explosive() bool {
	switch k {
	case Bomb, MBomb, TrapBomb:
		return true
	}
	return false
}

// PositionOnly kinds shove other projectiles without damaging them.
func (k ProjectileKind) PositionOnly() bool {
	switch k {
	case Trap, TrapBomb, Bomb:
		return true
	}
	return false
}

// Sticky kinds pull toward what they touch instead of bouncing off.
func (k ProjectileKind) Sticky() bool {
	return k == MBomb
}

// Projectile is anything a turret fires.
type Projectile struct {
	physics.Body
	Type  ProjectileKind
	Firer ID
}
