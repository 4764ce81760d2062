// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"math"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-arena/pkg/entity"
)

// SpriteSize is the side in pixels of every generated sprite. Sprites are
// white so the render color can tint them.
const SpriteSize = 64

// TankTag is the asset tag shared by every tank class.
const TankTag = "tank"

// AssetManager generates the sprite images and turns them into textures on
// first use. Textures need a GL context, images do not.
type AssetManager struct {
	images    map[string]*image.NRGBA
	drawables map[string]common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		images:    make(map[string]*image.NRGBA),
		drawables: make(map[string]common.Drawable),
	}
}

// LoadAssets generates the sprite image of every tag.
func (am *AssetManager) LoadAssets() error {
	am.images[TankTag] = tankImage(SpriteSize)

	for _, k := range []entity.ShapeKind{entity.Square, entity.Triangle, entity.Pentagon, entity.Hexagon} {
		am.images[k.String()] = polygonImage(SpriteSize, shapeSides(k))
	}

	for _, k := range []entity.ProjectileKind{entity.Bullet, entity.Bomb, entity.MBomb, entity.TrapBomb, entity.Drone} {
		am.images[k.String()] = circleImage(SpriteSize)
	}
	// traps are drawn as triangles, like the caltrops they stand for
	am.images[entity.Trap.String()] = polygonImage(SpriteSize, 3)
	return nil
}

func shapeSides(k entity.ShapeKind) int {
	switch k {
	case entity.Triangle:
		return 3
	case entity.Pentagon:
		return 5
	case entity.Hexagon:
		return 6
	default:
		return 4
	}
}

// Image returns the sprite image of tag, falling back to a circle.
func (am *AssetManager) Image(tag string) *image.NRGBA {
	if img, ok := am.images[tag]; ok {
		return img
	}
	return am.images[entity.Bullet.String()]
}

// Drawable returns the texture of tag, uploading it on first use.
func (am *AssetManager) Drawable(tag string) common.Drawable {
	if _, ok := am.images[tag]; !ok {
		tag = entity.Bullet.String()
	}
	if d, ok := am.drawables[tag]; ok {
		return d
	}
	img := am.images[tag]
	if img == nil {
		return common.Circle{}
	}
	d := common.NewTextureSingle(common.NewImageObject(img))
	am.drawables[tag] = d
	return d
}

// fill paints every pixel whose center satisfies inside.
func fill(size int, inside func(x, y float64) bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if inside(float64(x)+0.5, float64(y)+0.5) {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func circleImage(size int) *image.NRGBA {
	r := float64(size) / 2
	return fill(size, func(x, y float64) bool {
		return math.Hypot(x-r, y-r) <= r
	})
}

// tankImage is a round body with one barrel pointing up, the direction a
// tank faces at rotation zero.
func tankImage(size int) *image.NRGBA {
	s := float64(size)
	c := s / 2
	body := s * 0.35
	barrel := s * 0.08
	return fill(size, func(x, y float64) bool {
		if math.Hypot(x-c, y-c) <= body {
			return true
		}
		return math.Abs(x-c) <= barrel && y <= c
	})
}

// polygonImage is a regular polygon inscribed in the sprite. Odd polygons
// point up; even ones rest on a flat edge.
func polygonImage(size, sides int) *image.NRGBA {
	r := float64(size) / 2
	offset := 0.0
	if sides%2 == 0 {
		offset = math.Pi / float64(sides)
	}
	verts := make([][2]float64, sides)
	for i := range verts {
		a := 2*math.Pi*float64(i)/float64(sides) + offset
		verts[i] = [2]float64{r + r*math.Sin(a), r - r*math.Cos(a)}
	}
	return fill(size, func(x, y float64) bool {
		return insidePolygon(verts, x, y)
	})
}

// insidePolygon is the even-odd ray casting test.
func insidePolygon(verts [][2]float64, x, y float64) bool {
	in := false
	for i, j := 0, len(verts)-1; i < len(verts); j, i = i, i+1 {
		xi, yi := verts[i][0], verts[i][1]
		xj, yj := verts[j][0], verts[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			in = !in
		}
	}
	return in
}
