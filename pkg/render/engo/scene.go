// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
	"github.com/opd-ai/go-arena/pkg/logging"
)

// Stepper advances the simulation by dt seconds with the player's command
// and returns the resulting state.
type Stepper func(dt float64, player engine.Command) *engine.Snapshot

// Promoter evolves the player's tank into its n-th promotion.
type Promoter func(n int) error

// GameScene is an engo scene that drives the arena from the window's frame
// loop and lets one tank be steered with keyboard and mouse.
type GameScene struct {
	step    Stepper
	promote Promoter
	player  entity.OptionalID

	eventBus *event.Bus
	subs     []*event.Subscription
	logger   *logging.Logger

	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
}

// NewGameScene creates a new game scene. promote may be nil.
func NewGameScene(step Stepper, promote Promoter, player entity.OptionalID, eventBus *event.Bus, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &GameScene{
		step:     step,
		promote:  promote,
		player:   player,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "ArenaScene"
}

// Preload generates the sprite images.
func (scene *GameScene) Preload() {
	scene.assets = NewAssetManager()
	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(context.Background(), "generating sprites", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.NRGBA{R: 0xcd, G: 0xcd, B: 0xcd, A: 0xff})

	rs := &common.RenderSystem{}
	if scene.assets == nil {
		scene.Preload()
	}
	scene.wire(rs, scene.assets)

	if fnt, err := loadHUDFont(); err != nil {
		scene.logger.Warn(context.Background(), "hud disabled", "error", err)
	} else {
		scene.hud.Attach(rs, fnt)
	}
	SetupInputBindings()

	world.AddSystem(rs)
	world.AddSystem(scene.input)
	world.AddSystem(&frameSystem{scene: scene})
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)
}

// wire builds the scene's systems around a render system.
func (scene *GameScene) wire(system spriteSystem, assets *AssetManager) {
	scene.camera = NewCameraSystem()
	scene.input = NewInputSystem(scene.camera)
	scene.renderer = NewEngoRenderer(system, scene.camera, assets)
	scene.renderer.SetPlayer(scene.player)
	scene.hud = NewHUDSystem(scene.player)

	if scene.eventBus != nil {
		scene.subs = append(scene.subs, scene.eventBus.Subscribe(event.TankDestroyed, func(e event.Event) {
			if kill, ok := e.(*event.KillEvent); ok {
				scene.hud.AddKill(kill)
			}
		}))
	}
}

// Frame runs one simulation step and mirrors the result on screen.
func (scene *GameScene) Frame(dt float32) {
	snap := scene.step(float64(dt), scene.input.Command())

	if n := scene.input.Promotion(); n >= 0 && scene.promote != nil {
		if err := scene.promote(n); err != nil {
			scene.logger.Debug(context.Background(), "promotion refused", "slot", n+1, "error", err)
		}
	}

	if id, ok := scene.player.Get(); ok && snap != nil {
		if me, alive := snap.Find(id); alive {
			scene.camera.SetTarget(me.Position)
		}
	}

	if err := scene.renderer.Render(snap); err != nil {
		scene.logger.Error(context.Background(), "rendering frame", err)
	}
	scene.hud.SetSnapshot(snap)
}

// Exit is called when the scene is closed
func (scene *GameScene) Exit() {
	for _, s := range scene.subs {
		s.Cancel()
	}
	scene.subs = nil
	if scene.hud != nil {
		scene.hud.Detach()
	}
	if scene.renderer != nil {
		_ = scene.renderer.Close()
	}
}

// frameSystem calls back into the scene once per frame.
type frameSystem struct {
	scene *GameScene
}

func (f *frameSystem) Update(dt float32) { f.scene.Frame(dt) }

func (f *frameSystem) Remove(basic ecs.BasicEntity) {}

// Run opens a window showing scene and blocks until it is closed.
func Run(title string, width, height, fps int, scene *GameScene) {
	engo.Run(engo.RunOptions{
		Title:    title,
		Width:    width,
		Height:   height,
		FPSLimit: fps,
	}, scene)
}
