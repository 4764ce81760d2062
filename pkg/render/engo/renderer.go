// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

// spriteSystem is the part of common.RenderSystem the renderer drives.
type spriteSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is one snapshot entity on screen.
type sprite struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
	seen   uint64
}

var (
	playerColor  = color.NRGBA{R: 0x40, G: 0xd0, B: 0x60, A: 0xff}
	enemyColor   = color.NRGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xff}
	neutralColor = color.NRGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}

	shapeColors = map[string]color.NRGBA{
		entity.Square.String():   {R: 0xff, G: 0xe8, B: 0x69, A: 0xff},
		entity.Triangle.String(): {R: 0xfc, G: 0x76, B: 0x77, A: 0xff},
		entity.Pentagon.String(): {R: 0x76, G: 0x8d, B: 0xfc, A: 0xff},
		entity.Hexagon.String():  {R: 0xb0, G: 0x6c, B: 0xe8, A: 0xff},
	}
)

// EngoRenderer mirrors snapshots into render system entities. It keeps one
// sprite per live entity and removes sprites whose entity is gone.
type EngoRenderer struct {
	system    spriteSystem
	camera    *CameraSystem
	drawable  func(tag string) common.Drawable
	sprites   map[entity.ID]*sprite
	frame     uint64
	player    entity.OptionalID
	lastFrame *engine.Snapshot
}

// NewEngoRenderer creates a renderer that draws through system.
func NewEngoRenderer(system spriteSystem, camera *CameraSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		system:   system,
		camera:   camera,
		drawable: assets.Drawable,
		sprites:  make(map[entity.ID]*sprite),
	}
}

// SetPlayer marks the tank, and its projectiles, to draw in the player's color.
func (r *EngoRenderer) SetPlayer(id entity.OptionalID) {
	r.player = id
}

// Render syncs the render system with snap.
func (r *EngoRenderer) Render(snap *engine.Snapshot) error {
	if snap == nil {
		return nil
	}
	r.frame++
	r.lastFrame = snap

	for i := range snap.Entities {
		es := &snap.Entities[i]
		s, ok := r.sprites[es.ID]
		if !ok {
			s = r.newSprite(es)
			r.sprites[es.ID] = s
			r.system.Add(&s.basic, &s.render, &s.space)
		}
		s.seen = r.frame
		r.place(s, es)
	}

	for id, s := range r.sprites {
		if s.seen != r.frame {
			r.system.Remove(s.basic)
			delete(r.sprites, id)
		}
	}
	return nil
}

func (r *EngoRenderer) newSprite(es *engine.EntityState) *sprite {
	s := &sprite{basic: ecs.NewBasic()}
	tag := es.Tag
	if es.Kind == entity.KindTank {
		tag = TankTag
	}
	s.render.Drawable = r.drawable(tag)
	s.render.SetZIndex(zIndex(es.Kind))
	return s
}

func zIndex(k entity.Kind) float32 {
	switch k {
	case entity.KindTank:
		return 3
	case entity.KindProjectile:
		return 2
	default:
		return 1
	}
}

// place positions s on screen. The space component's position is its top
// left corner and rotation turns about that corner, so the corner is moved
// around the center by the same rotation.
func (r *EngoRenderer) place(s *sprite, es *engine.EntityState) {
	scale := float64(r.camera.GetZoom())
	side := 2 * es.Radius * scale
	center := r.camera.WorldToScreen(es.Position)
	corner := center.Add(physics.Vector2D{X: -side / 2, Y: -side / 2}.RotateDeg(es.Rotation))

	s.space.Position = engo.Point{X: float32(corner.X), Y: float32(corner.Y)}
	s.space.Width = float32(side)
	s.space.Height = float32(side)
	s.space.Rotation = float32(es.Rotation)

	k := float32(side / SpriteSize)
	s.render.Scale = engo.Point{X: k, Y: k}
	s.render.Color = r.color(es)
}

func (r *EngoRenderer) color(es *engine.EntityState) color.Color {
	var c color.NRGBA
	switch es.Kind {
	case entity.KindTank:
		c = r.side(es.ID)
	case entity.KindProjectile:
		c = neutralColor
		if owner, ok := es.Owner.Get(); ok {
			c = r.side(owner)
		}
	default:
		c = shapeColors[es.Tag]
		if es.Growing {
			c.A = 0x80
		}
	}
	return c
}

func (r *EngoRenderer) side(id entity.ID) color.NRGBA {
	if p, ok := r.player.Get(); ok && p == id {
		return playerColor
	}
	return enemyColor
}

// Len returns the number of sprites on screen.
func (r *EngoRenderer) Len() int {
	return len(r.sprites)
}

// Last returns the most recently rendered snapshot.
func (r *EngoRenderer) Last() *engine.Snapshot {
	return r.lastFrame
}

// Close removes every sprite from the render system.
func (r *EngoRenderer) Close() error {
	for id, s := range r.sprites {
		r.system.Remove(s.basic)
		delete(r.sprites, id)
	}
	return nil
}
