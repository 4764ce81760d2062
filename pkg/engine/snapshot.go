// pkg/engine/snapshot.go
package engine

import (
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// EntityState is the read-only view of one entity handed to controllers
// and renderers.
type EntityState struct {
	ID       entity.ID
	Kind     entity.Kind
	Tag      string
	Position physics.Vector2D
	Rotation float64
	Velocity physics.Vector2D
	Radius   float64
	HPRatio  float64
	Growing  bool
	Owner    entity.OptionalID // firer, for projectiles
	XP       float64
}

// Snapshot is a consistent copy of the world taken between ticks.
type Snapshot struct {
	Tick       uint64
	HalfExtent float64
	Entities   []EntityState
}

// Snapshot copies the current world state, ordered by id.
func (g *Game) Snapshot() *Snapshot {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	ids := g.world.SortedIDs()
	snap := &Snapshot{
		Tick:       g.CurrentTick,
		HalfExtent: g.Config.MapHalfExtent,
		Entities:   make([]EntityState, 0, len(ids)),
	}
	for _, id := range ids {
		e, _ := g.world.Entity(id)
		b := e.PhysicsBody()
		st := EntityState{
			ID:       id,
			Kind:     e.Kind(),
			Tag:      e.Tag(),
			Position: b.Position,
			Rotation: b.Rot,
			Velocity: b.Velocity,
			Radius:   b.Radius,
			HPRatio:  b.HPRatio(),
		}
		switch v := e.(type) {
		case *entity.Tank:
			st.XP = v.XP
		case *entity.Shape:
			st.Growing = v.Growing
		case *entity.Projectile:
			st.Owner = entity.Some(v.Firer)
		}
		snap.Entities = append(snap.Entities, st)
	}
	return snap
}

// Find returns the state of id, if it was alive when the snapshot was taken.
func (s *Snapshot) Find(id entity.ID) (EntityState, bool) {
	for _, st := range s.Entities {
		if st.ID == id {
			return st, true
		}
	}
	return EntityState{}, false
}
