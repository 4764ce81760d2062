// pkg/entity/entity_test.go
package entity

import (
	"testing"

	"github.com/opd-ai/go-arena/pkg/random"
)

func TestNewID_Deterministic(t *testing.T) {
	a, err := NewID(random.New(1))
	if err != nil {
		t.Fatalf("NewID() error: %v", err)
	}
	b, _ := NewID(random.New(1))
	if a != b {
		t.Errorf("same seed produced different ids: %v vs %v", a, b)
	}

	src := random.New(1)
	first, _ := NewID(src)
	second, _ := NewID(src)
	if first == second {
		t.Error("consecutive ids collided")
	}
}

func TestID_TextRoundTrip(t *testing.T) {
	id, _ := NewID(random.New(9))
	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID() error: %v", err)
	}
	if parsed != id {
		t.Errorf("ParseID(String()) = %v, want %v", parsed, id)
	}
	if len(id.Short()) != 8 {
		t.Errorf("Short() = %q", id.Short())
	}
}

func TestID_Compare(t *testing.T) {
	var lo, hi ID
	hi[0] = 1
	if lo.Compare(hi) >= 0 || hi.Compare(lo) <= 0 || lo.Compare(lo) != 0 {
		t.Error("Compare() is not a total order on bytes")
	}
}

func TestOptionalID(t *testing.T) {
	if _, ok := None().Get(); ok {
		t.Error("None() reported a value")
	}

	id, _ := NewID(random.New(2))
	got, ok := Some(id).Get()
	if !ok || got != id {
		t.Errorf("Some(id).Get() = %v, %v", got, ok)
	}

	// the zero id is a valid reference, not "absent"
	if !Some(NilID).IsSome() {
		t.Error("Some(NilID) should be set")
	}
}

func TestKinds_String(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"tank", KindTank.String(), "tank"},
		{"hexagon", Hexagon.String(), "hexagon"},
		{"mbomb", MBomb.String(), "mbomb"},
		{"out_of_range_shape", ShapeKind(42).String(), "ShapeKind(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("String() = %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestProjectileKind_Predicates(t *testing.T) {
	tests := []struct {
		kind                             ProjectileKind
		explosive, positionOnly, sticky bool
	}{
		{Bullet, false, false, false},
		{Bomb, true, true, false},
		{MBomb, true, false, true},
		{Trap, false, true, false},
		{TrapBomb, true, true, false},
		{Drone, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Explosive(); got != tt.explosive {
				t.Errorf("Explosive() = %v", got)
			}
			if got := tt.kind.PositionOnly(); got != tt.positionOnly {
				t.Errorf("PositionOnly() = %v", got)
			}
			if got := tt.kind.Sticky(); got != tt.sticky {
				t.Errorf("Sticky() = %v", got)
			}
		})
	}
}

func TestParseKinds(t *testing.T) {
	for _, name := range []string{"bullet", "bomb", "mbomb", "trap", "trapbomb", "drone"} {
		k, err := ParseProjectileKind(name)
		if err != nil || k.String() != name {
			t.Errorf("ParseProjectileKind(%q) = %v, %v", name, k, err)
		}
	}
	if _, err := ParseShapeKind("circle"); err == nil {
		t.Error("ParseShapeKind accepted an unknown kind")
	}

	var k ShapeKind
	if err := k.UnmarshalText([]byte("triangle")); err != nil || k != Triangle {
		t.Errorf("UnmarshalText(triangle) = %v, %v", k, err)
	}
}

func TestEntity_Interface(t *testing.T) {
	entities := []Entity{
		&Tank{Class: "basic"},
		NewMatureShape(Pentagon, vec(0, 0), 1),
		&Projectile{Type: Trap},
	}
	wantKinds := []Kind{KindTank, KindShape, KindProjectile}
	wantTags := []string{"basic", "pentagon", "trap"}

	for i, e := range entities {
		if e.Kind() != wantKinds[i] || e.Tag() != wantTags[i] {
			t.Errorf("entity %d: kind %v tag %q", i, e.Kind(), e.Tag())
		}
		if e.PhysicsBody() == nil {
			t.Errorf("entity %d: nil body", i)
		}
	}
}
