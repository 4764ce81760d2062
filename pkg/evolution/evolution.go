// pkg/evolution/evolution.go
package evolution

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// ErrUnknownClass is returned when a class name is not in the tree.
var ErrUnknownClass = errors.New("unknown tank class")

// Multipliers are per-tank upgrade factors applied on top of a class.
type Multipliers = entity.Multipliers

// BodyStats are a class's base body values.
type BodyStats struct {
	Weight float64 `json:"weight"`
	Radius float64 `json:"radius"`
	HP     float64 `json:"hp"`
	Regen  float64 `json:"regen"`
}

// ClassTemplate is the level-one definition of a tank class.
type ClassTemplate struct {
	Name       string          `json:"name"`
	Body       BodyStats       `json:"body"`
	Power      float64         `json:"power"`
	RotPower   float64         `json:"rot_power"`
	Turrets    []entity.Turret `json:"turrets"`
	Promotions []string        `json:"promotions,omitempty"`
	// Cost is the price to evolve into this class. The simulation carries it
	// for callers but never charges it.
	Cost      float64            `json:"cost"`
	MaxDrones int                `json:"max_drones,omitempty"`
	Infects   []entity.ShapeKind `json:"infects,omitempty"`
}

// Instantiate builds a tank of this class at pos with upgrades applied.
// The tank's Owned set is empty and its XP zero.
func (c *ClassTemplate) Instantiate(pos physics.Vector2D, m Multipliers) (*entity.Tank, error) {
	body, err := physics.NewBody(physics.Body{
		Position: pos,
		Weight:   c.Body.Weight,
		Radius:   c.Body.Radius,
		HP:       c.Body.HP * factor(m.BodyHP),
		MaxHP:    c.Body.HP * factor(m.BodyHP),
		HPRegen:  c.Body.Regen * factor(m.Regen),
	})
	if err != nil {
		return nil, fmt.Errorf("class %q: %w", c.Name, err)
	}

	tank := &entity.Tank{
		Body:      body,
		Class:     c.Name,
		Power:     c.Power * factor(m.Movement),
		RotPower:  c.RotPower,
		Turrets:   make([]entity.Turret, len(c.Turrets)),
		Owned:     make(map[entity.ID]struct{}),
		MaxDrones: c.MaxDrones,
		Infects:   slices.Clone(c.Infects),
	}
	copy(tank.Turrets, c.Turrets)
	for i := range tank.Turrets {
		tank.Turrets[i].Scale(m)
		tank.Turrets[i].Cooldown = 0
	}
	return tank, nil
}

// Apply converts an existing tank to this class in place, keeping its
// position, motion, XP and owned projectiles. Health keeps its ratio.
func (c *ClassTemplate) Apply(t *entity.Tank, m Multipliers) error {
	fresh, err := c.Instantiate(t.Position, m)
	if err != nil {
		return err
	}
	ratio := t.HPRatio()
	fresh.Velocity = t.Velocity
	fresh.Rot = t.Rot
	fresh.RotVel = t.RotVel
	fresh.HP = fresh.MaxHP * ratio
	fresh.Owned = t.Owned
	fresh.LastAttacker = t.LastAttacker
	fresh.XP = t.XP
	fresh.AimPoint = t.AimPoint
	fresh.MoveDir = t.MoveDir
	fresh.Firing = t.Firing
	*t = *fresh
	return nil
}

func factor(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Tree is the read-only table of tank classes. It is passed explicitly to
// the engine; nothing in the simulation mutates it.
type Tree struct {
	classes map[string]*ClassTemplate
}

// NewTree builds a tree from templates and checks that every promotion
// points at a known class.
func NewTree(templates []ClassTemplate) (*Tree, error) {
	t := &Tree{classes: make(map[string]*ClassTemplate, len(templates))}
	for i := range templates {
		c := templates[i]
		if c.Name == "" {
			return nil, errors.New("class template without a name")
		}
		if _, dup := t.classes[c.Name]; dup {
			return nil, fmt.Errorf("duplicate class %q", c.Name)
		}
		if !(c.Body.Weight > 0) {
			return nil, fmt.Errorf("class %q: %w", c.Name, physics.ErrInvalidWeight)
		}
		t.classes[c.Name] = &c
	}
	for name, c := range t.classes {
		for _, p := range c.Promotions {
			if _, ok := t.classes[p]; !ok {
				return nil, fmt.Errorf("class %q promotes to %q: %w", name, p, ErrUnknownClass)
			}
		}
	}
	return t, nil
}

// Class returns a copy of the named template.
func (t *Tree) Class(name string) (ClassTemplate, error) {
	c, ok := t.classes[name]
	if !ok {
		return ClassTemplate{}, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	out := *c
	out.Turrets = slices.Clone(c.Turrets)
	out.Promotions = slices.Clone(c.Promotions)
	out.Infects = slices.Clone(c.Infects)
	return out, nil
}

// Has reports whether name is a class in the tree.
func (t *Tree) Has(name string) bool {
	_, ok := t.classes[name]
	return ok
}

// Promotions lists the classes name can evolve into.
func (t *Tree) Promotions(name string) ([]string, error) {
	c, ok := t.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return slices.Clone(c.Promotions), nil
}

// Names returns every class name in sorted order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.classes))
	for name := range t.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Templates returns copies of all templates in name order.
func (t *Tree) Templates() []ClassTemplate {
	names := t.Names()
	out := make([]ClassTemplate, 0, len(names))
	for _, name := range names {
		c, _ := t.Class(name)
		out = append(out, c)
	}
	return out
}

// LoadTree reads a JSON array of class templates.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading class tree: %w", err)
	}
	var templates []ClassTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing class tree: %w", err)
	}
	return NewTree(templates)
}

// SaveTree writes the tree as a JSON array of class templates.
func SaveTree(t *Tree, path string) error {
	data, err := json.MarshalIndent(t.Templates(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
