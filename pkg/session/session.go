// Package session runs an arena: it feeds controller commands into the
// engine at a fixed rate, renders each tick, respawns dead bots and lets
// tanks spend XP on promotions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-arena/pkg/controller"
	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/logging"
	"github.com/opd-ai/go-arena/pkg/physics"
	"github.com/opd-ai/go-arena/pkg/random"
	"github.com/opd-ai/go-arena/pkg/render"
)

// Evolution errors.
var (
	ErrNoPromotion  = errors.New("no such promotion")
	ErrNotEnoughXP  = errors.New("not enough xp")
	ErrUnknownState = errors.New("tank not in the last snapshot")
)

// spawnFraction keeps new tanks away from the walls.
const spawnFraction = 0.8

// Options configures a Session.
type Options struct {
	Logger   *logging.Logger
	Renderer render.Renderer
	// StatsEvery logs a summary every n ticks; 0 disables it.
	StatsEvery uint64
	// Respawn replaces a dead bot with a fresh one of BotClass.
	Respawn  bool
	BotClass string
	// AutoEvolve lets bots spend XP on a random promotion.
	AutoEvolve bool
	// CorrelationID tags every session log line; one is generated if empty.
	CorrelationID string
}

// Session drives one game. Tick, Run and Evolve must be called from a single
// goroutine; Ticks and Population are safe from any goroutine.
type Session struct {
	game     *engine.Game
	logger   *logging.Logger
	renderer render.Renderer
	opts     Options
	rng      *random.Source
	logCtx   context.Context

	controllers map[entity.ID]controller.Controller
	spent       map[entity.ID]float64
	dead        []entity.ID
	sub         *event.Subscription

	last       *engine.Snapshot
	ticks      atomic.Uint64
	population atomic.Int64
}

// New wraps game. rng places spawned tanks and drives the bots.
func New(game *engine.Game, rng *random.Source, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewNullRenderer(opts.Logger)
	}
	if opts.BotClass == "" {
		opts.BotClass = game.Config.Session.BotClass
	}
	s := &Session{
		game:        game,
		logger:      opts.Logger,
		renderer:    opts.Renderer,
		opts:        opts,
		rng:         rng,
		logCtx:      logging.WithCorrelationID(context.Background(), opts.CorrelationID),
		controllers: make(map[entity.ID]controller.Controller),
		spent:       make(map[entity.ID]float64),
	}
	s.sub = game.EventBus.Subscribe(event.TankDestroyed, func(e event.Event) {
		if kill, ok := e.(*event.KillEvent); ok {
			s.dead = append(s.dead, kill.TankID)
		}
	})
	return s
}

// CorrelationID identifies this session in the logs.
func (s *Session) CorrelationID() string {
	return logging.GetCorrelationID(s.logCtx)
}

// Game returns the wrapped game.
func (s *Session) Game() *engine.Game {
	return s.game
}

// Attach hands control of tank id to c.
func (s *Session) Attach(id entity.ID, c controller.Controller) {
	s.controllers[id] = c
}

// Controlled reports whether tank id has a controller.
func (s *Session) Controlled(id entity.ID) bool {
	_, ok := s.controllers[id]
	return ok
}

// SpawnTank places a tank of class at a random point in the arena.
func (s *Session) SpawnTank(class string) (entity.ID, error) {
	h := s.game.Config.MapHalfExtent * spawnFraction
	pos := physics.Vector2D{X: s.rng.Range(-h, h), Y: s.rng.Range(-h, h)}
	return s.game.SpawnTank(class, pos, entity.Multipliers{})
}

// AddBots spawns n bots of class, alternating aggressors and farmers.
func (s *Session) AddBots(n int, class string) ([]entity.ID, error) {
	ids := make([]entity.ID, 0, n)
	for i := 0; i < n; i++ {
		behavior := controller.BehaviorAggressor
		if i%2 == 1 {
			behavior = controller.BehaviorFarmer
		}
		id, err := s.addBot(class, behavior)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Session) addBot(class string, behavior controller.Behavior) (entity.ID, error) {
	id, err := s.SpawnTank(class)
	if err != nil {
		return entity.NilID, fmt.Errorf("spawning bot: %w", err)
	}
	s.Attach(id, controller.NewBot(behavior, s.rng))
	return id, nil
}

// Tick gathers commands, advances the game by dt and renders the result.
// overrides replace controller commands, for tanks steered from outside.
func (s *Session) Tick(dt float64, overrides map[entity.ID]engine.Command) *engine.Snapshot {
	if s.last == nil {
		s.last = s.game.Snapshot()
	}
	commands := controller.Gather(s.last, s.controllers)
	for id, cmd := range overrides {
		commands[id] = cmd
	}

	stats := s.game.Step(dt, commands)
	s.handleDeaths()

	snap := s.game.Snapshot()
	s.last = snap
	s.ticks.Store(snap.Tick)
	s.population.Store(int64(len(snap.Entities)))

	if s.opts.AutoEvolve {
		s.evolveBots()
	}
	if err := s.renderer.Render(snap); err != nil {
		s.logger.Warn(s.logCtx, "render failed", "tick", snap.Tick, "error", err)
	}
	if s.opts.StatsEvery > 0 && stats.Tick%s.opts.StatsEvery == 0 {
		s.logStats(stats, snap)
	}
	return snap
}

// handleDeaths drops controllers of dead tanks and respawns bots.
func (s *Session) handleDeaths() {
	dead := s.dead
	s.dead = nil
	for _, id := range dead {
		c, ok := s.controllers[id]
		delete(s.controllers, id)
		delete(s.spent, id)
		if !ok || !s.opts.Respawn {
			continue
		}
		bot, isBot := c.(*controller.Bot)
		if !isBot {
			continue
		}
		newID, err := s.addBot(s.opts.BotClass, bot.Behavior)
		if err != nil {
			s.logger.Error(s.logCtx, "respawning bot", err)
			continue
		}
		s.logger.Debug(s.logCtx, "bot respawned", "old", id.Short(), "new", newID.Short())
	}
}

// Evolve promotes tank id into the slot-th class its current class can
// become, paying the class cost from the tank's unspent XP.
func (s *Session) Evolve(id entity.ID, slot int) (string, error) {
	if s.last == nil {
		s.last = s.game.Snapshot()
	}
	st, ok := s.last.Find(id)
	if !ok || st.Kind != entity.KindTank {
		return "", fmt.Errorf("%w: %v", ErrUnknownState, id)
	}
	promotions, err := s.game.Tree.Promotions(st.Tag)
	if err != nil {
		return "", err
	}
	if slot < 0 || slot >= len(promotions) {
		return "", fmt.Errorf("%w: %s has %d, asked for %d", ErrNoPromotion, st.Tag, len(promotions), slot+1)
	}
	class := promotions[slot]
	tmpl, err := s.game.Tree.Class(class)
	if err != nil {
		return "", err
	}

	xp, ok := s.game.TankXP(id)
	if !ok {
		return "", fmt.Errorf("%w: %v", engine.ErrTankNotFound, id)
	}
	if available := xp - s.spent[id]; available < tmpl.Cost {
		return "", fmt.Errorf("%w: %s costs %.0f, %.0f available", ErrNotEnoughXP, class, tmpl.Cost, available)
	}
	if err := s.game.SetClass(id, class, entity.Multipliers{}); err != nil {
		return "", err
	}
	s.spent[id] += tmpl.Cost

	s.logger.Info(s.logCtx, "tank evolved", "id", id.Short(), "from", st.Tag, "to", class)
	return class, nil
}

// evolveBots promotes every bot that can afford one of its promotions.
func (s *Session) evolveBots() {
	for _, st := range s.last.Entities {
		if st.Kind != entity.KindTank {
			continue
		}
		id := st.ID
		if _, ok := s.controllers[id].(*controller.Bot); !ok {
			continue
		}
		promotions, err := s.game.Tree.Promotions(st.Tag)
		if err != nil || len(promotions) == 0 {
			continue
		}
		_, err = s.Evolve(id, s.rng.IntN(len(promotions)))
		if err != nil && !errors.Is(err, ErrNotEnoughXP) {
			s.logger.Warn(s.logCtx, "bot evolution failed", "id", id.Short(), "error", err)
		}
	}
}

func (s *Session) logStats(stats engine.StepStats, snap *engine.Snapshot) {
	var tanks, shapes, projectiles int
	for _, st := range snap.Entities {
		switch st.Kind {
		case entity.KindTank:
			tanks++
		case entity.KindShape:
			shapes++
		case entity.KindProjectile:
			projectiles++
		}
	}
	s.logger.Info(s.logCtx, "arena stats",
		"tick", stats.Tick,
		"tanks", tanks,
		"shapes", shapes,
		"projectiles", projectiles,
		"collisions", stats.Collisions,
		"deaths", stats.Deaths,
		"spawned", stats.Spawned,
	)
}

// Run ticks every interval until ctx is done or maxTicks ticks have run
// (0 means no limit). Each tick gets the measured wall-clock delta, which
// the engine clamps.
func (s *Session) Run(ctx context.Context, interval time.Duration, maxTicks uint64) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for n := uint64(0); maxTicks == 0 || n < maxTicks; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(now.Sub(last).Seconds(), nil)
			last = now
		}
	}
	return nil
}

// RunFast ticks n times with a fixed dt and no waiting, for headless runs
// and benchmarks.
func (s *Session) RunFast(ctx context.Context, n uint64, dt float64) error {
	for i := uint64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick(dt, nil)
	}
	return nil
}

// Ticks returns the last completed tick.
func (s *Session) Ticks() uint64 {
	return s.ticks.Load()
}

// Population returns the entity count after the last tick.
func (s *Session) Population() int {
	return int(s.population.Load())
}

// Close stops listening to the game and closes the renderer.
func (s *Session) Close() error {
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	return s.renderer.Close()
}
