// Package validation checks values that cross into the simulation from
// controllers, config files and callers before the engine acts on them.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// Limits on externally supplied values
const (
	MaxClassNameLen = 32
	MaxMultiplier   = 100
	// MaxCoordinate bounds aim points; anything further is a broken controller.
	MaxCoordinate = 1e9
)

var (
	// ErrNonFinite reports a NaN or infinite component.
	ErrNonFinite = errors.New("value is not finite")

	// lower-case letters, digits, spaces, hyphens and underscores, starting with a letter
	validClassNameChars = regexp.MustCompile(`^[a-z][a-z0-9 _\-]*$`)
)

// ValidateVector checks that both components are finite and within
// MaxCoordinate.
func ValidateVector(name string, v physics.Vector2D) error {
	if !v.IsFinite() {
		return fmt.Errorf("%s %v: %w", name, v, ErrNonFinite)
	}
	if math.Abs(v.X) > MaxCoordinate || math.Abs(v.Y) > MaxCoordinate {
		return fmt.Errorf("%s %v out of range", name, v)
	}
	return nil
}

// ValidateCommand validates a controller's movement direction and aim point
func ValidateCommand(move, aim physics.Vector2D) error {
	if err := ValidateVector("move direction", move); err != nil {
		return err
	}
	return ValidateVector("aim point", aim)
}

// ValidateClassName validates the syntax of a tank class name
func ValidateClassName(name string) error {
	if name == "" {
		return fmt.Errorf("class name cannot be empty")
	}
	if len(name) > MaxClassNameLen {
		return fmt.Errorf("class name too long: %d characters (max %d)", len(name), MaxClassNameLen)
	}
	if !utf8.ValidString(name) || !validClassNameChars.MatchString(name) {
		return fmt.Errorf("class name %q contains invalid characters", name)
	}
	return nil
}

// ValidateMultipliers validates upgrade multipliers. Zero means "unchanged",
// so only negative, non-finite or absurd values are rejected.
func ValidateMultipliers(m entity.Multipliers) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"body_hp", m.BodyHP},
		{"regen", m.Regen},
		{"movement", m.Movement},
		{"reload", m.Reload},
		{"projectile_impulse", m.ProjectileImpulse},
		{"projectile_hp", m.ProjectileHP},
		{"projectile_weight", m.ProjectileWeight},
		{"projectile_radius", m.ProjectileRadius},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("multiplier %s: %w", f.name, ErrNonFinite)
		}
		if f.value < 0 || f.value > MaxMultiplier {
			return fmt.Errorf("multiplier %s out of range: %v (max %d)", f.name, f.value, MaxMultiplier)
		}
	}
	return nil
}
