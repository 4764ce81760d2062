// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// promotionKeys select the n-th class the player's tank can evolve into.
var promotionKeys = []engo.Key{engo.KeyOne, engo.KeyTwo, engo.KeyThree, engo.KeyFour}

// moveKeys is the state of the four movement buttons.
type moveKeys struct {
	up, down, left, right bool
}

// InputSystem turns keyboard and mouse state into the player's command
type InputSystem struct {
	camera *CameraSystem

	command   engine.Command
	promotion int
}

// NewInputSystem creates a new input system
func NewInputSystem(camera *CameraSystem) *InputSystem {
	return &InputSystem{camera: camera, promotion: -1}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update samples input once per frame
func (is *InputSystem) Update(dt float32) {
	if engo.Input.Button("quit").JustPressed() {
		engo.Exit()
		return
	}

	keys := moveKeys{
		up:    engo.Input.Button("up").Down(),
		down:  engo.Input.Button("down").Down(),
		left:  engo.Input.Button("left").Down(),
		right: engo.Input.Button("right").Down(),
	}
	mouse := physics.Vector2D{X: float64(engo.Input.Mouse.X), Y: float64(engo.Input.Mouse.Y)}
	fire := engo.Input.Button("fire").Down() || engo.Input.Mouse.Action == engo.Press

	is.command = commandFrom(keys, is.camera.ScreenToWorld(mouse), fire)

	is.promotion = -1
	for i := range promotionKeys {
		if engo.Input.Button(promotionButton(i)).JustPressed() {
			is.promotion = i
			break
		}
	}
}

// Command returns the command sampled by the last Update.
func (is *InputSystem) Command() engine.Command {
	return is.command
}

// Promotion returns the promotion slot chosen this frame, or -1.
func (is *InputSystem) Promotion() int {
	return is.promotion
}

// commandFrom builds a command from sampled input. Opposing keys cancel.
func commandFrom(keys moveKeys, aim physics.Vector2D, fire bool) engine.Command {
	var move physics.Vector2D
	if keys.up {
		move.Y--
	}
	if keys.down {
		move.Y++
	}
	if keys.left {
		move.X--
	}
	if keys.right {
		move.X++
	}
	return engine.Command{Move: move.Normalize(), Aim: aim, Fire: fire}
}

func promotionButton(i int) string {
	return "promote" + string(rune('1'+i))
}

// SetupInputBindings configures the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton("up", engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton("down", engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton("left", engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton("right", engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton("fire", engo.KeySpace)
	engo.Input.RegisterButton("quit", engo.KeyEscape)

	for i, k := range promotionKeys {
		engo.Input.RegisterButton(promotionButton(i), k)
	}

	SetupCameraControls()
}
