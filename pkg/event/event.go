// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	TankSpawned        Type = "tank_spawned"
	TankDestroyed      Type = "tank_destroyed"
	ClassChanged       Type = "class_changed"
	ShapeSpawned       Type = "shape_spawned"
	ShapeDestroyed     Type = "shape_destroyed"
	ShapeSplit         Type = "shape_split"
	ProjectileFired    Type = "projectile_fired"
	ProjectileExploded Type = "projectile_exploded"
	DroneInfected      Type = "drone_infected"
	EntityCollision    Type = "entity_collision"
	XPAwarded          Type = "xp_awarded"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Subscription identifies one registered handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine, so a handler must not call back
// into the engine that is publishing.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// copy so a Publish iterating the old slice is unaffected
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			b.handlers[eventType] = append(next, subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// EntityEvent reports an entity entering or leaving the world.
type EntityEvent struct {
	BaseEvent
	EntityID entity.ID
	Kind     entity.Kind
	Tag      string
	Position physics.Vector2D
}

// NewEntityEvent creates a new entity event
func NewEntityEvent(eventType Type, source interface{}, id entity.ID, e entity.Entity) *EntityEvent {
	return &EntityEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		EntityID:  id,
		Kind:      e.Kind(),
		Tag:       e.Tag(),
		Position:  e.PhysicsBody().Position,
	}
}

// KillEvent reports a tank's death and who was credited with it.
type KillEvent struct {
	BaseEvent
	TankID    entity.ID
	Class     string
	Killer    entity.OptionalID
	KillValue float64
}

// NewKillEvent creates a new tank kill event
func NewKillEvent(source interface{}, tankID entity.ID, class string, killer entity.OptionalID, value float64) *KillEvent {
	return &KillEvent{
		BaseEvent: BaseEvent{EventType: TankDestroyed, Source: source},
		TankID:    tankID,
		Class:     class,
		Killer:    killer,
		KillValue: value,
	}
}

// ProjectileEvent reports a turret shot.
type ProjectileEvent struct {
	BaseEvent
	ProjectileID entity.ID
	FirerID      entity.ID
	Kind         entity.ProjectileKind
}

// NewProjectileEvent creates a new projectile event
func NewProjectileEvent(eventType Type, source interface{}, projectileID, firerID entity.ID, kind entity.ProjectileKind) *ProjectileEvent {
	return &ProjectileEvent{
		BaseEvent:    BaseEvent{EventType: eventType, Source: source},
		ProjectileID: projectileID,
		FirerID:      firerID,
		Kind:         kind,
	}
}

// CollisionEvent contains information about entity collisions
type CollisionEvent struct {
	BaseEvent
	EntityA entity.ID
	EntityB entity.ID
	DamageA float64
	DamageB float64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, a, b entity.ID, damageA, damageB float64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{EventType: EntityCollision, Source: source},
		EntityA:   a,
		EntityB:   b,
		DamageA:   damageA,
		DamageB:   damageB,
	}
}

// XPEvent reports experience credited to a tank.
type XPEvent struct {
	BaseEvent
	TankID entity.ID
	Victim entity.ID
	Amount float64
}

// NewXPEvent creates a new XP event
func NewXPEvent(source interface{}, tankID, victim entity.ID, amount float64) *XPEvent {
	return &XPEvent{
		BaseEvent: BaseEvent{EventType: XPAwarded, Source: source},
		TankID:    tankID,
		Victim:    victim,
		Amount:    amount,
	}
}

// SpawnEvent reports entities created from a dying one: the squares of a
// split hexagon, the shrapnel of an explosion, or an infected drone.
type SpawnEvent struct {
	BaseEvent
	ParentID entity.ID
	Children []entity.ID
}

// NewSpawnEvent creates a new spawn event
func NewSpawnEvent(eventType Type, source interface{}, parent entity.ID, children []entity.ID) *SpawnEvent {
	return &SpawnEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ParentID:  parent,
		Children:  children,
	}
}
