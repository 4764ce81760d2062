// pkg/world/world.go
package world

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// ErrDuplicateID is returned when an id source repeats itself.
var ErrDuplicateID = errors.New("entity id already in use")

// World owns every entity of a simulation, partitioned by kind. Entities
// refer to each other only by id; a lookup of a removed id reports false.
type World struct {
	Tanks       map[entity.ID]*entity.Tank
	Shapes      map[entity.ID]*entity.Shape
	Projectiles map[entity.ID]*entity.Projectile

	ids io.Reader
}

// New creates an empty world that draws ids from ids.
func New(ids io.Reader) *World {
	return &World{
		Tanks:       make(map[entity.ID]*entity.Tank),
		Shapes:      make(map[entity.ID]*entity.Shape),
		Projectiles: make(map[entity.ID]*entity.Projectile),
		ids:         ids,
	}
}

func (w *World) newID() (entity.ID, error) {
	id, err := entity.NewID(w.ids)
	if err != nil {
		return entity.NilID, err
	}
	if _, ok := w.KindOf(id); ok {
		return entity.NilID, fmt.Errorf("%w: %v", ErrDuplicateID, id)
	}
	return id, nil
}

// AddTank validates and stores t under a fresh id.
func (w *World) AddTank(t *entity.Tank) (entity.ID, error) {
	if err := t.Validate(); err != nil {
		return entity.NilID, fmt.Errorf("adding tank: %w", err)
	}
	id, err := w.newID()
	if err != nil {
		return entity.NilID, err
	}
	if t.Owned == nil {
		t.Owned = make(map[entity.ID]struct{})
	}
	w.Tanks[id] = t
	return id, nil
}

// AddShape validates and stores s under a fresh id.
func (w *World) AddShape(s *entity.Shape) (entity.ID, error) {
	if err := s.Validate(); err != nil {
		return entity.NilID, fmt.Errorf("adding shape: %w", err)
	}
	id, err := w.newID()
	if err != nil {
		return entity.NilID, err
	}
	w.Shapes[id] = s
	return id, nil
}

// AddProjectile validates and stores p under a fresh id and records it in
// its firer's owned set when the firer is alive.
func (w *World) AddProjectile(p *entity.Projectile) (entity.ID, error) {
	if err := p.Validate(); err != nil {
		return entity.NilID, fmt.Errorf("adding projectile: %w", err)
	}
	id, err := w.newID()
	if err != nil {
		return entity.NilID, err
	}
	w.Projectiles[id] = p
	if firer, ok := w.Tanks[p.Firer]; ok {
		firer.Own(id)
	}
	return id, nil
}

// Tank looks up a live tank.
func (w *World) Tank(id entity.ID) (*entity.Tank, bool) {
	t, ok := w.Tanks[id]
	return t, ok
}

// Shape looks up a live shape.
func (w *World) Shape(id entity.ID) (*entity.Shape, bool) {
	s, ok := w.Shapes[id]
	return s, ok
}

// Projectile looks up a live projectile.
func (w *World) Projectile(id entity.ID) (*entity.Projectile, bool) {
	p, ok := w.Projectiles[id]
	return p, ok
}

// Entity looks up any live entity.
func (w *World) Entity(id entity.ID) (entity.Entity, bool) {
	if t, ok := w.Tanks[id]; ok {
		return t, true
	}
	if s, ok := w.Shapes[id]; ok {
		return s, true
	}
	if p, ok := w.Projectiles[id]; ok {
		return p, true
	}
	return nil, false
}

// Body returns the physics body of any live entity.
func (w *World) Body(id entity.ID) (*physics.Body, bool) {
	e, ok := w.Entity(id)
	if !ok {
		return nil, false
	}
	return e.PhysicsBody(), true
}

// KindOf reports which partition holds id.
func (w *World) KindOf(id entity.ID) (entity.Kind, bool) {
	e, ok := w.Entity(id)
	if !ok {
		return 0, false
	}
	return e.Kind(), true
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.Tanks) + len(w.Shapes) + len(w.Projectiles)
}

// SortedIDs returns every live id in ascending byte order, the iteration
// order used wherever the simulation walks the whole world.
func (w *World) SortedIDs() []entity.ID {
	ids := make([]entity.ID, 0, w.Len())
	ids = slices.AppendSeq(ids, maps.Keys(w.Tanks))
	ids = slices.AppendSeq(ids, maps.Keys(w.Shapes))
	ids = slices.AppendSeq(ids, maps.Keys(w.Projectiles))
	slices.SortFunc(ids, entity.ID.Compare)
	return ids
}

// SortedTankIDs returns the live tank ids in ascending order.
func (w *World) SortedTankIDs() []entity.ID {
	return slices.SortedFunc(maps.Keys(w.Tanks), entity.ID.Compare)
}

// SortedProjectileIDs returns the live projectile ids in ascending order.
func (w *World) SortedProjectileIDs() []entity.ID {
	return slices.SortedFunc(maps.Keys(w.Projectiles), entity.ID.Compare)
}

// Remove deletes id from the world. Removing a projectile drops it from its
// firer's owned set; removing a tank leaves its projectiles in flight.
// It reports whether anything was removed.
func (w *World) Remove(id entity.ID) bool {
	if _, ok := w.Tanks[id]; ok {
		delete(w.Tanks, id)
		return true
	}
	if _, ok := w.Shapes[id]; ok {
		delete(w.Shapes, id)
		return true
	}
	if p, ok := w.Projectiles[id]; ok {
		if firer, ok := w.Tanks[p.Firer]; ok {
			firer.Disown(id)
		}
		delete(w.Projectiles, id)
		return true
	}
	return false
}

// Clone returns a deep copy sharing the id source.
func (w *World) Clone() *World {
	c := New(w.ids)
	for id, t := range w.Tanks {
		cp := *t
		cp.Turrets = slices.Clone(t.Turrets)
		cp.Owned = maps.Clone(t.Owned)
		cp.Infects = slices.Clone(t.Infects)
		c.Tanks[id] = &cp
	}
	for id, s := range w.Shapes {
		cp := *s
		c.Shapes[id] = &cp
	}
	for id, p := range w.Projectiles {
		cp := *p
		c.Projectiles[id] = &cp
	}
	return c
}
