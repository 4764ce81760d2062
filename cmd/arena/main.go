// cmd/arena/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/opd-ai/go-arena/pkg/config"
	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/evolution"
	"github.com/opd-ai/go-arena/pkg/health"
	"github.com/opd-ai/go-arena/pkg/logging"
	"github.com/opd-ai/go-arena/pkg/random"
	"github.com/opd-ai/go-arena/pkg/render"
	engorender "github.com/opd-ai/go-arena/pkg/render/engo"
	"github.com/opd-ai/go-arena/pkg/session"
)

type options struct {
	configPath    string
	createDefault bool
	treePath      string
	renderer      string
	recordPath    string
	recordEvery   int
	ticks         uint64
	fast          bool
	healthAddr    string
	logPath       string
	scale         float64
	playerClass   string
	width, height int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "arena.json", "Path to configuration file")
	flag.BoolVar(&o.createDefault, "default", false, "Write the default configuration to -config and exit")
	flag.StringVar(&o.treePath, "tree", "", "Path to a JSON class tree (default: built-in)")
	flag.StringVar(&o.renderer, "renderer", "none", "Renderer: none, terminal or engo")
	flag.StringVar(&o.recordPath, "record", "", "Write msgpack snapshot frames to this file")
	flag.IntVar(&o.recordEvery, "record-every", 1, "Record every n-th tick")
	flag.Uint64Var(&o.ticks, "ticks", 0, "Stop after n ticks (0 runs until interrupted)")
	flag.BoolVar(&o.fast, "fast", false, "Run -ticks as fast as possible with a fixed dt (renderer none only)")
	flag.StringVar(&o.healthAddr, "health", "", "Serve /health and /ready on this address")
	flag.StringVar(&o.logPath, "log", "", "Log file (default stderr; discarded under the terminal renderer)")
	flag.Float64Var(&o.scale, "scale", 25, "World units per terminal cell")
	flag.StringVar(&o.playerClass, "player", "basic", "Class of the player's tank (engo only)")
	flag.IntVar(&o.width, "width", 1280, "Window width (engo only)")
	flag.IntVar(&o.height, "height", 800, "Window height (engo only)")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	logger, closeLog, err := openLogger(o)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	if o.createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), o.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", o.configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", o.configPath)
		return
	}

	if err := run(ctx, o, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Arena stopped", err)
		closeLog()
		os.Exit(1)
	}
}

func openLogger(o options) (*logging.Logger, func(), error) {
	switch {
	case o.logPath != "":
		f, err := os.OpenFile(o.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return logging.NewJSONLogger(f), func() { _ = f.Close() }, nil
	case o.renderer == "terminal":
		// the terminal renderer owns the tty
		return logging.Discard(), func() {}, nil
	default:
		return logging.NewConsoleLogger(os.Stderr), func() {}, nil
	}
}

func loadConfig(ctx context.Context, path string, logger *logging.Logger) (*config.ArenaConfig, error) {
	var cfg *config.ArenaConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration", "config_path", path)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, logging.WrapError(err, "loading configuration", "config_path", path)
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, logging.WrapError(err, "applying environment configuration")
	}
	return cfg, nil
}

func run(ctx context.Context, o options, logger *logging.Logger) error {
	cfg, err := loadConfig(ctx, o.configPath, logger)
	if err != nil {
		return err
	}

	tree := evolution.DefaultTree()
	if o.treePath != "" {
		if tree, err = evolution.LoadTree(o.treePath); err != nil {
			return err
		}
	}

	// a zero seed asks for a fresh arena every run
	seed := cfg.Session.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	game, err := engine.NewGame(cfg, tree, random.New(seed), engine.WithLogger(logger))
	if err != nil {
		return err
	}

	renderers, err := buildRenderers(ctx, o, logger)
	if err != nil {
		return err
	}
	sess := session.New(game, random.New(^seed), session.Options{
		Logger:        logger,
		Renderer:      renderers,
		StatsEvery:    uint64(cfg.Session.TickRate) * 10,
		Respawn:       true,
		BotClass:      cfg.Session.BotClass,
		AutoEvolve:    true,
		CorrelationID: logging.GetCorrelationID(ctx),
	})
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn(ctx, "closing renderers", "error", err)
		}
	}()

	if _, err := sess.AddBots(cfg.Session.Bots, cfg.Session.BotClass); err != nil {
		return err
	}
	logger.Info(ctx, "Arena ready",
		"seed", seed,
		"half_extent", cfg.MapHalfExtent,
		"bots", cfg.Session.Bots,
		"target_shapes", cfg.TargetShapes(),
		"tick_rate", cfg.Session.TickRate,
	)

	if o.healthAddr != "" {
		stop := serveHealth(ctx, o.healthAddr, sess, cfg, logger)
		defer stop()
	}

	if o.renderer == "engo" {
		return runWindow(o, sess, logger)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	for _, r := range renderers {
		if t, ok := r.(*render.TerminalRenderer); ok {
			go func() {
				select {
				case <-t.Quit():
					cancel()
				case <-ctx.Done():
				}
			}()
		}
	}

	if o.fast && o.ticks > 0 {
		return sess.RunFast(ctx, o.ticks, cfg.TickInterval().Seconds())
	}
	return sess.Run(ctx, cfg.TickInterval(), o.ticks)
}

func buildRenderers(ctx context.Context, o options, logger *logging.Logger) (render.Multi, error) {
	var out render.Multi
	switch o.renderer {
	case "none", "engo":
	case "terminal":
		t, err := render.NewTerminalRenderer(o.scale)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	default:
		return nil, fmt.Errorf("unknown renderer %q", o.renderer)
	}

	if o.recordPath != "" {
		f, err := os.Create(o.recordPath)
		if err != nil {
			_ = out.Close()
			return nil, fmt.Errorf("creating recording: %w", err)
		}
		out = append(out, render.NewRecorder(f, o.recordEvery))
		logger.Info(ctx, "Recording snapshots", "path", o.recordPath, "every", o.recordEvery)
	}
	if len(out) == 0 {
		out = append(out, render.NewNullRenderer(logger))
	}
	return out, nil
}

// runWindow hands the main goroutine to engo. The player's tank is stepped
// with the window's input; every other tank keeps its controller.
func runWindow(o options, sess *session.Session, logger *logging.Logger) error {
	player, err := sess.SpawnTank(o.playerClass)
	if err != nil {
		return err
	}

	step := func(dt float64, cmd engine.Command) *engine.Snapshot {
		return sess.Tick(dt, map[entity.ID]engine.Command{player: cmd})
	}
	promote := func(n int) error {
		_, err := sess.Evolve(player, n)
		return err
	}

	scene := engorender.NewGameScene(step, promote, entity.Some(player), sess.Game().EventBus, logger)
	engorender.Run("arena", o.width, o.height, sess.Game().Config.Session.TickRate, scene)
	return nil
}

func serveHealth(ctx context.Context, addr string, sess *session.Session, cfg *config.ArenaConfig, logger *logging.Logger) func() {
	checker := health.NewChecker()
	checker.AddCheck(health.NewTickCheck(sess.Ticks, 10*cfg.TickInterval()+time.Second))
	checker.AddCheck(health.NewPopulationCheck(10*(cfg.TargetShapes()+cfg.Session.Bots)+1000, sess.Population))
	checker.AddCheck(health.NewMemoryHealthCheck(500, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	srv := &http.Server{
		Addr:         addr,
		Handler:      checker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting health check server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Health check server shutdown failed", err)
		}
	}
}
