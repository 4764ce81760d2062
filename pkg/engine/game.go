// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/opd-ai/go-arena/pkg/config"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/evolution"
	"github.com/opd-ai/go-arena/pkg/logging"
	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
	"github.com/opd-ai/go-arena/pkg/validation"
	"github.com/opd-ai/go-arena/pkg/world"
)

// ErrTankNotFound is returned by operations addressed to a tank that is not
// in the world.
var ErrTankNotFound = errors.New("tank not found")

// Command is what a controller wants one tank to do this tick.
type Command struct {
	// Move need not be normalized; the zero vector brakes.
	Move physics.Vector2D
	// Aim is a point in arena space the tank turns toward.
	Aim  physics.Vector2D
	Fire bool
}

// StepStats summarizes one tick.
type StepStats struct {
	Tick       uint64
	Dt         float64
	Collisions int
	Deaths     int
	Spawned    int
}

// Game owns a world and advances it one tick at a time. All methods are safe
// for concurrent use; Step holds the write lock for the whole tick.
type Game struct {
	Config      *config.ArenaConfig
	Tree        *evolution.Tree
	EntityLock  sync.RWMutex
	CurrentTick uint64
	ElapsedTime float64 // seconds
	EventBus    *event.Bus

	world  *world.World
	rng    *random.Source
	logger *logging.Logger

	// per-tick bookkeeping, reset at the start of every Step
	tick tickState
}

type tickState struct {
	creditedTanks  map[entity.ID]bool
	creditedShapes map[entity.ID]bool
	infections     []infection
	events         []event.Event
	collisions     int
}

type infection struct {
	shape entity.ID
	firer entity.ID
	at    physics.Vector2D
	vel   physics.Vector2D
}

// Option customizes a Game.
type Option func(*Game)

// WithLogger sets the game's logger.
func WithLogger(l *logging.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithEventBus sets the bus events are published on.
func WithEventBus(b *event.Bus) Option {
	return func(g *Game) { g.EventBus = b }
}

// NewGame creates an empty arena. rng drives every random decision and
// every entity id, so a seeded source gives a reproducible run.
func NewGame(cfg *config.ArenaConfig, tree *evolution.Tree, rng *random.Source, opts ...Option) (*Game, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid arena config")
	}
	if tree == nil {
		tree = evolution.DefaultTree()
	}
	if rng == nil {
		rng = random.NewFromTime()
	}

	g := &Game{
		Config:   cfg,
		Tree:     tree,
		EventBus: event.NewEventBus(),
		world:    world.New(rng),
		rng:      rng,
		logger:   logging.NewLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.resetTick()
	return g, nil
}

func (g *Game) resetTick() {
	g.tick = tickState{
		creditedTanks:  make(map[entity.ID]bool),
		creditedShapes: make(map[entity.ID]bool),
	}
}

// World exposes the entity store. Callers must hold EntityLock while using
// it concurrently with Step.
func (g *Game) World() *world.World {
	return g.world
}

// ClampDelta maps a measured frame time onto a safe step: NaN and negative
// values become zero and large values are capped at MaxDeltaTime.
func (g *Game) ClampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	return math.Min(dt, g.Config.Physics.MaxDeltaTime)
}

// Step advances the simulation by dt seconds. commands maps tank ids to this
// tick's input; tanks without an entry brake and hold fire.
func (g *Game) Step(dt float64, commands map[entity.ID]Command) StepStats {
	g.EntityLock.Lock()
	dt = g.ClampDelta(dt)
	g.resetTick()

	g.applyCommands(commands, dt)
	g.steerDrones(dt)
	g.integrate(dt)
	g.constrainToArena(dt)
	g.advanceCooldowns(dt)
	g.resolveCollisions(dt)
	deaths := g.processDeaths()
	spawned := g.spawnShapes()

	g.CurrentTick++
	g.ElapsedTime += dt
	stats := StepStats{
		Tick:       g.CurrentTick,
		Dt:         dt,
		Collisions: g.tick.collisions,
		Deaths:     deaths,
		Spawned:    spawned,
	}
	events := g.tick.events
	g.tick.events = nil
	g.EntityLock.Unlock()

	// published outside the lock so handlers may read the game
	for _, e := range events {
		g.EventBus.Publish(e)
	}
	return stats
}

func (g *Game) emit(e event.Event) {
	g.tick.events = append(g.tick.events, e)
}

// SpawnTank creates a tank of class at pos with upgrade multipliers applied.
func (g *Game) SpawnTank(class string, pos physics.Vector2D, mult entity.Multipliers) (entity.ID, error) {
	if err := validation.ValidateClassName(class); err != nil {
		return entity.NilID, err
	}
	if err := validation.ValidateMultipliers(mult); err != nil {
		return entity.NilID, err
	}
	tmpl, err := g.Tree.Class(class)
	if err != nil {
		return entity.NilID, err
	}
	tank, err := tmpl.Instantiate(pos, mult)
	if err != nil {
		return entity.NilID, err
	}

	g.EntityLock.Lock()
	id, err := g.world.AddTank(tank)
	if err != nil {
		g.EntityLock.Unlock()
		return entity.NilID, logging.WrapError(err, "spawning %s tank", class)
	}
	ev := event.NewEntityEvent(event.TankSpawned, g, id, tank)
	g.EntityLock.Unlock()

	g.logger.Debug(context.Background(), "tank spawned", "id", id.Short(), "class", class)
	g.EventBus.Publish(ev)
	return id, nil
}

// SetClass evolves a live tank into class, keeping its position, XP and
// projectiles. The cost and promotion rules are the caller's business.
func (g *Game) SetClass(id entity.ID, class string, mult entity.Multipliers) error {
	if err := validation.ValidateMultipliers(mult); err != nil {
		return err
	}
	tmpl, err := g.Tree.Class(class)
	if err != nil {
		return err
	}

	g.EntityLock.Lock()
	tank, ok := g.world.Tank(id)
	if !ok {
		g.EntityLock.Unlock()
		return fmt.Errorf("%w: %v", ErrTankNotFound, id)
	}
	if err := tmpl.Apply(tank, mult); err != nil {
		g.EntityLock.Unlock()
		return err
	}
	ev := event.NewEntityEvent(event.ClassChanged, g, id, tank)
	g.EntityLock.Unlock()

	g.EventBus.Publish(ev)
	return nil
}

// AddShape places a shape of kind at pos. A growing shape starts at zero
// health and matures over time.
func (g *Game) AddShape(kind entity.ShapeKind, pos physics.Vector2D, growing bool) (entity.ID, error) {
	var s *entity.Shape
	if growing {
		s = entity.NewGrowingShape(kind, pos, 1)
	} else {
		s = entity.NewMatureShape(kind, pos, 1)
	}

	g.EntityLock.Lock()
	id, err := g.world.AddShape(s)
	if err != nil {
		g.EntityLock.Unlock()
		return entity.NilID, err
	}
	ev := event.NewEntityEvent(event.ShapeSpawned, g, id, s)
	g.EntityLock.Unlock()

	g.EventBus.Publish(ev)
	return id, nil
}

// TankXP returns a live tank's experience, for callers that price upgrades.
func (g *Game) TankXP(id entity.ID) (float64, bool) {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	t, ok := g.world.Tank(id)
	if !ok {
		return 0, false
	}
	return t.XP, true
}
