// pkg/entity/shape.go
package entity

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-arena/pkg/physics"
)

// GrowthRegenMultiplier is how much faster a growing shape regenerates than
// a mature one.
const GrowthRegenMultiplier = 16

// growthWeightFloor keeps a just-spawned shape's weight positive.
const growthWeightFloor = 0.05

// ShapeKind is the behavior tag of a neutral shape.
type ShapeKind int

const (
	Square ShapeKind = iota
	Triangle
	Pentagon
	Hexagon
)

var shapeKindNames = [...]string{
	Square:   "square",
	Triangle: "triangle",
	Pentagon: "pentagon",
	Hexagon:  "hexagon",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeKindNames[k]
}

// ParseShapeKind is the inverse of String.
func ParseShapeKind(s string) (ShapeKind, error) {
	for k, name := range shapeKindNames {
		if name == s {
			return ShapeKind(k), nil
		}
	}
	return Square, fmt.Errorf("unknown shape kind %q", s)
}

func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ShapeKind) UnmarshalText(data []byte) error {
	parsed, err := ParseShapeKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ShapeStats are the mature stats of a shape kind at size scale 1.
type ShapeStats struct {
	Radius float64
	Weight float64
	HP     float64
	Regen  float64
}

var shapeStats = [...]ShapeStats{
	Square:   {Radius: 20, Weight: 5, HP: 10, Regen: 0.5},
	Triangle: {Radius: 24, Weight: 8, HP: 25, Regen: 0.8},
	Pentagon: {Radius: 40, Weight: 30, HP: 100, Regen: 1},
	Hexagon:  {Radius: 52, Weight: 45, HP: 180, Regen: 1.5},
}

// Stats returns the base stats of k.
func (k ShapeKind) Stats() ShapeStats {
	if k < 0 || int(k) >= len(shapeStats) {
		return shapeStats[Square]
	}
	return shapeStats[k]
}

// Shape is a neutral destructible body that yields XP.
type Shape struct {
	physics.Body
	Type ShapeKind
	// Growing marks a shape that has not reached full health since spawning.
	// Its radius and weight follow its health and it yields no reward.
	Growing bool
	// Age is the time in seconds since the shape entered the world.
	Age float64

	BaseRadius float64
	BaseWeight float64
}

// NewMatureShape returns a full-health shape of kind k with its size scaled
// by scale.
func NewMatureShape(k ShapeKind, pos physics.Vector2D, scale float64) *Shape {
	st := k.Stats()
	area := scale * scale
	return &Shape{
		Body: physics.Body{
			Position: pos,
			Weight:   st.Weight * area,
			Radius:   st.Radius * scale,
			HP:       st.HP * area,
			MaxHP:    st.HP * area,
			HPRegen:  st.Regen * area,
		},
		Type:       k,
		BaseRadius: st.Radius * scale,
		BaseWeight: st.Weight * area,
	}
}

// NewGrowingShape returns a shape of kind k that starts at zero health and
// grows into its mature size.
func NewGrowingShape(k ShapeKind, pos physics.Vector2D, scale float64) *Shape {
	s := NewMatureShape(k, pos, scale)
	s.HP = 0
	s.HPRegen *= GrowthRegenMultiplier
	s.Growing = true
	s.Grow()
	return s
}

// Grow re-derives size from health while the shape is growing, and ends
// growth once health reaches its maximum. Call it after each Update.
func (s *Shape) Grow() {
	if !s.Growing {
		return
	}
	if s.HP >= s.MaxHP {
		s.Growing = false
		s.HPRegen /= GrowthRegenMultiplier
		s.Radius = s.BaseRadius
		s.Weight = s.BaseWeight
		return
	}

	frac := 0.0
	if s.MaxHP > 0 {
		frac = math.Max(0, s.HP/s.MaxHP)
	}
	s.Radius = s.BaseRadius * frac
	s.Weight = s.BaseWeight * math.Max(frac, growthWeightFloor)
}

// Area is the area of the collision circle.
func (s *Shape) Area() float64 {
	return math.Pi * s.Radius * s.Radius
}

// Dead reports whether the shape should be removed. A growing shape starts at
// zero health, so it is only dead once it has existed for some time.
func (s *Shape) Dead() bool {
	if s.Growing && s.Age <= 0 {
		return false
	}
	return s.HP <= 0
}

// Rewarding reports whether killing the shape grants XP.
func (s *Shape) Rewarding() bool {
	return !s.Growing
}
