// pkg/world/world_test.go
package world

import (
	"errors"
	"slices"
	"testing"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
)

func testTank() *entity.Tank {
	return &entity.Tank{
		Body:  physics.Body{Weight: 20, Radius: 30, HP: 20, MaxHP: 20},
		Class: "basic",
	}
}

func testProjectile(firer entity.ID) *entity.Projectile {
	return &entity.Projectile{
		Body:  physics.Body{Weight: 3, Radius: 12, HP: 3, MaxHP: 3},
		Type:  entity.Bullet,
		Firer: firer,
	}
}

func TestWorld_AddAndLookup(t *testing.T) {
	w := New(random.New(1))

	tankID, err := w.AddTank(testTank())
	if err != nil {
		t.Fatalf("AddTank() error: %v", err)
	}
	shapeID, err := w.AddShape(entity.NewMatureShape(entity.Square, physics.Vector2D{}, 1))
	if err != nil {
		t.Fatalf("AddShape() error: %v", err)
	}
	projID, err := w.AddProjectile(testProjectile(tankID))
	if err != nil {
		t.Fatalf("AddProjectile() error: %v", err)
	}

	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}

	tests := []struct {
		name string
		id   entity.ID
		kind entity.Kind
	}{
		{"tank", tankID, entity.KindTank},
		{"shape", shapeID, entity.KindShape},
		{"projectile", projID, entity.KindProjectile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := w.KindOf(tt.id)
			if !ok || kind != tt.kind {
				t.Errorf("KindOf() = %v, %v", kind, ok)
			}
			if _, ok := w.Body(tt.id); !ok {
				t.Error("Body() missing")
			}
		})
	}

	tank, _ := w.Tank(tankID)
	if !tank.Owns(projID) {
		t.Error("AddProjectile() did not record ownership")
	}
}

func TestWorld_RejectsZeroWeight(t *testing.T) {
	w := New(random.New(1))
	bad := testTank()
	bad.Weight = 0
	if _, err := w.AddTank(bad); !errors.Is(err, physics.ErrInvalidWeight) {
		t.Errorf("AddTank() error = %v, want ErrInvalidWeight", err)
	}
	if w.Len() != 0 {
		t.Error("rejected tank was stored")
	}
}

func TestWorld_StaleLookup(t *testing.T) {
	w := New(random.New(1))
	id, _ := w.AddTank(testTank())
	w.Remove(id)

	if tank, ok := w.Tank(id); ok || tank != nil {
		t.Error("lookup of removed tank succeeded")
	}
	if _, ok := w.Body(id); ok {
		t.Error("Body() of removed id succeeded")
	}
	if w.Remove(id) {
		t.Error("second Remove() reported success")
	}
}

func TestWorld_RemoveProjectileDisowns(t *testing.T) {
	w := New(random.New(2))
	tankID, _ := w.AddTank(testTank())
	p1, _ := w.AddProjectile(testProjectile(tankID))
	p2, _ := w.AddProjectile(testProjectile(tankID))

	w.Remove(p1)
	tank, _ := w.Tank(tankID)
	if tank.Owns(p1) || !tank.Owns(p2) {
		t.Errorf("owned set after removal: %v", tank.Owned)
	}

	// a projectile outliving its firer is removed without error
	w.Remove(tankID)
	if !w.Remove(p2) {
		t.Error("orphan projectile was not removed")
	}
}

func TestWorld_SortedIDs(t *testing.T) {
	w := New(random.New(3))
	for i := 0; i < 20; i++ {
		w.AddShape(entity.NewMatureShape(entity.Triangle, physics.Vector2D{X: float64(i)}, 1))
	}
	w.AddTank(testTank())

	ids := w.SortedIDs()
	if len(ids) != 21 {
		t.Fatalf("SortedIDs() returned %d ids", len(ids))
	}
	if !slices.IsSortedFunc(ids, entity.ID.Compare) {
		t.Error("SortedIDs() is not sorted")
	}
	if !slices.Equal(ids, w.SortedIDs()) {
		t.Error("SortedIDs() is not stable")
	}
}

func TestWorld_DeterministicIDs(t *testing.T) {
	a, b := New(random.New(4)), New(random.New(4))
	idA, _ := a.AddTank(testTank())
	idB, _ := b.AddTank(testTank())
	if idA != idB {
		t.Errorf("same seed produced ids %v and %v", idA, idB)
	}
}

func TestWorld_Clone(t *testing.T) {
	w := New(random.New(5))
	tankID, _ := w.AddTank(testTank())
	projID, _ := w.AddProjectile(testProjectile(tankID))

	c := w.Clone()
	ct, _ := c.Tank(tankID)
	ct.HP = 1
	ct.Disown(projID)

	orig, _ := w.Tank(tankID)
	if orig.HP != 20 || !orig.Owns(projID) {
		t.Error("mutating the clone changed the original")
	}
}
