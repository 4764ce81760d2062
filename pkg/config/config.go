// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ArenaConfig contains configuration for an arena simulation
type ArenaConfig struct {
	// MapHalfExtent is half the side of the square arena centered on the
	// origin.
	MapHalfExtent float64         `json:"mapHalfExtent"`
	Physics       PhysicsConfig   `json:"physics"`
	Spawning      SpawnConfig     `json:"spawning"`
	Lifecycle     LifecycleConfig `json:"lifecycle"`
	Session       SessionConfig   `json:"session"`
}

// PhysicsConfig contains integration and collision tuning
type PhysicsConfig struct {
	Friction     float64 `json:"friction"`
	MaxDeltaTime float64 `json:"maxDeltaTime"`

	// Boundary spring: push per unit of overflow, and velocity damping
	// divided by the body's weight.
	BoundaryStiffness float64 `json:"boundaryStiffness"`
	BoundaryDamping   float64 `json:"boundaryDamping"`

	// Contact response: push = (relSpeed + overlap*stiffness) *
	// sqrt(w1+w2) * dt * scale, damage = push / divisor.
	CollisionStiffness float64 `json:"collisionStiffness"`
	CollisionPushScale float64 `json:"collisionPushScale"`
	ContactDamping     float64 `json:"contactDamping"`
	DamageDivisor      float64 `json:"damageDivisor"`
	TorqueScale        float64 `json:"torqueScale"`
}

// SpawnConfig controls the neutral shape population
type SpawnConfig struct {
	// ShapeDensity is the target number of shapes per unit of arena area.
	ShapeDensity     float64 `json:"shapeDensity"`
	MaxSpawnsPerTick int     `json:"maxSpawnsPerTick"`
	GrowthMode       bool    `json:"growthMode"`
	// ShapeWeights are relative spawn probabilities keyed by shape kind.
	ShapeWeights map[string]float64 `json:"shapeWeights"`
	SizeStdDev   float64            `json:"sizeStdDev"`
}

// LifecycleConfig tunes deaths, explosions, rewards and drones
type LifecycleConfig struct {
	SplitSizeFraction float64 `json:"splitSizeFraction"`
	SplitJitter       float64 `json:"splitJitter"`

	BlastRadiusFactor float64 `json:"blastRadiusFactor"`
	BlastForce        float64 `json:"blastForce"`
	ShrapnelPerRadius float64 `json:"shrapnelPerRadius"`
	ShrapnelSpeed     float64 `json:"shrapnelSpeed"`
	ShrapnelHP        float64 `json:"shrapnelHP"`
	ShrapnelLifetime  float64 `json:"shrapnelLifetime"`

	ShapeXPPerArea float64 `json:"shapeXPPerArea"`

	DroneAcceleration float64 `json:"droneAcceleration"`
	DroneMaxSpeed     float64 `json:"droneMaxSpeed"`
	DefaultMaxDrones  int     `json:"defaultMaxDrones"`
}

// SessionConfig holds run-level settings used by cmd/arena
type SessionConfig struct {
	Seed     uint64 `json:"seed"`
	Bots     int    `json:"bots"`
	BotClass string `json:"botClass"`
	TickRate int    `json:"tickRate"`
}

// Area returns the arena's area.
func (c *ArenaConfig) Area() float64 {
	side := 2 * c.MapHalfExtent
	return side * side
}

// TargetShapes is the shape population the spawner tops up to.
func (c *ArenaConfig) TargetShapes() int {
	return int(math.Round(c.Area() * c.Spawning.ShapeDensity))
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*ArenaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// unset fields keep their defaults
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *ArenaConfig, path string) error {
	if config == nil {
		return errors.New("cannot save nil config")
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default arena configuration
func DefaultConfig() *ArenaConfig {
	return &ArenaConfig{
		MapHalfExtent: 2000,
		Physics: PhysicsConfig{
			Friction:           1,
			MaxDeltaTime:       0.1,
			BoundaryStiffness:  200,
			BoundaryDamping:    40,
			CollisionStiffness: 10,
			CollisionPushScale: 10,
			ContactDamping:     2,
			DamageDivisor:      100,
			TorqueScale:        50,
		},
		Spawning: SpawnConfig{
			ShapeDensity:     3e-6,
			MaxSpawnsPerTick: 2,
			GrowthMode:       true,
			ShapeWeights: map[string]float64{
				"square":   10,
				"triangle": 5,
				"pentagon": 2,
				"hexagon":  0.6,
			},
			SizeStdDev: 0.1,
		},
		Lifecycle: LifecycleConfig{
			SplitSizeFraction: 0.5,
			SplitJitter:       0.5,
			BlastRadiusFactor: 4,
			BlastForce:        40,
			ShrapnelPerRadius: 0.5,
			ShrapnelSpeed:     600,
			ShrapnelHP:        2,
			ShrapnelLifetime:  0.6,
			ShapeXPPerArea:    0.01,
			DroneAcceleration: 1200,
			DroneMaxSpeed:     400,
			DefaultMaxDrones:  8,
		},
		Session: SessionConfig{
			Seed:     0,
			Bots:     6,
			BotClass: "basic",
			TickRate: 60,
		},
	}
}

// Validate checks that the configuration can drive a stable simulation
func (c *ArenaConfig) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"mapHalfExtent", c.MapHalfExtent},
		{"physics.maxDeltaTime", c.Physics.MaxDeltaTime},
		{"physics.damageDivisor", c.Physics.DamageDivisor},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"physics.friction", c.Physics.Friction},
		{"physics.boundaryStiffness", c.Physics.BoundaryStiffness},
		{"physics.boundaryDamping", c.Physics.BoundaryDamping},
		{"physics.collisionStiffness", c.Physics.CollisionStiffness},
		{"physics.collisionPushScale", c.Physics.CollisionPushScale},
		{"physics.contactDamping", c.Physics.ContactDamping},
		{"spawning.shapeDensity", c.Spawning.ShapeDensity},
		{"spawning.sizeStdDev", c.Spawning.SizeStdDev},
		{"lifecycle.splitSizeFraction", c.Lifecycle.SplitSizeFraction},
		{"lifecycle.blastRadiusFactor", c.Lifecycle.BlastRadiusFactor},
		{"lifecycle.blastForce", c.Lifecycle.BlastForce},
		{"lifecycle.shrapnelPerRadius", c.Lifecycle.ShrapnelPerRadius},
		{"lifecycle.shrapnelSpeed", c.Lifecycle.ShrapnelSpeed},
		{"lifecycle.shrapnelHP", c.Lifecycle.ShrapnelHP},
		{"lifecycle.shapeXPPerArea", c.Lifecycle.ShapeXPPerArea},
		{"lifecycle.droneAcceleration", c.Lifecycle.DroneAcceleration},
		{"lifecycle.droneMaxSpeed", c.Lifecycle.DroneMaxSpeed},
	}
	for _, n := range nonNegative {
		if !(n.value >= 0) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%s must be non-negative, got %v", n.name, n.value)
		}
	}

	if c.Spawning.MaxSpawnsPerTick < 0 {
		return fmt.Errorf("spawning.maxSpawnsPerTick must be non-negative, got %d", c.Spawning.MaxSpawnsPerTick)
	}
	if c.Lifecycle.DefaultMaxDrones < 0 {
		return fmt.Errorf("lifecycle.defaultMaxDrones must be non-negative, got %d", c.Lifecycle.DefaultMaxDrones)
	}
	if c.Lifecycle.ShrapnelHP > 0 && !(c.Lifecycle.ShrapnelLifetime > 0) {
		return fmt.Errorf("lifecycle.shrapnelLifetime must be positive when shrapnel has hp")
	}
	for kind, w := range c.Spawning.ShapeWeights {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("spawning.shapeWeights[%s] must be non-negative", kind)
		}
	}
	if c.Session.Bots < 0 {
		return fmt.Errorf("session.bots must be non-negative, got %d", c.Session.Bots)
	}
	if c.Session.TickRate <= 0 {
		return fmt.Errorf("session.tickRate must be positive, got %d", c.Session.TickRate)
	}
	return nil
}
