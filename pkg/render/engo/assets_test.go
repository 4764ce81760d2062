// pkg/render/engo/assets_test.go
package engo

import (
	"testing"

	"github.com/opd-ai/go-arena/pkg/entity"
)

func opaque(t *testing.T, am *AssetManager, tag string, x, y int) bool {
	t.Helper()
	img := am.Image(tag)
	if img == nil {
		t.Fatalf("no image for %q", tag)
	}
	return img.NRGBAAt(x, y).A != 0
}

func TestNewAssetManager(t *testing.T) {
	am := NewAssetManager()
	if am.images == nil || am.drawables == nil {
		t.Fatal("expected initialized maps")
	}
	if img := am.Image(TankTag); img != nil {
		t.Error("expected no images before LoadAssets")
	}
}

func TestLoadAssets_GeneratesEveryTag(t *testing.T) {
	am := NewAssetManager()
	if err := am.LoadAssets(); err != nil {
		t.Fatalf("LoadAssets: %v", err)
	}

	tags := []string{TankTag}
	for _, k := range []entity.ShapeKind{entity.Square, entity.Triangle, entity.Pentagon, entity.Hexagon} {
		tags = append(tags, k.String())
	}
	for _, k := range []entity.ProjectileKind{entity.Bullet, entity.Bomb, entity.MBomb, entity.Trap, entity.TrapBomb, entity.Drone} {
		tags = append(tags, k.String())
	}

	for _, tag := range tags {
		t.Run(tag, func(t *testing.T) {
			img, ok := am.images[tag]
			if !ok {
				t.Fatalf("missing image")
			}
			if b := img.Bounds(); b.Dx() != SpriteSize || b.Dy() != SpriteSize {
				t.Errorf("size = %v, want %dx%d", b, SpriteSize, SpriteSize)
			}
			if !opaque(t, am, tag, SpriteSize/2, SpriteSize/2) {
				t.Error("center pixel should be filled")
			}
		})
	}
}

func TestAssetManager_Shapes(t *testing.T) {
	am := NewAssetManager()
	if err := am.LoadAssets(); err != nil {
		t.Fatalf("LoadAssets: %v", err)
	}

	tests := []struct {
		name   string
		tag    string
		x, y   int
		filled bool
	}{
		{"circle corner", entity.Bullet.String(), 1, 1, false},
		{"circle edge", entity.Bullet.String(), 32, 1, true},
		{"square corner", entity.Square.String(), 2, 2, false},
		{"square inner corner", entity.Square.String(), 12, 12, true},
		{"triangle apex", entity.Triangle.String(), 32, 2, true},
		{"triangle side", entity.Triangle.String(), 5, 5, false},
		{"tank barrel", TankTag, 32, 3, true},
		{"tank side", TankTag, 5, 32, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := opaque(t, am, tt.tag, tt.x, tt.y); got != tt.filled {
				t.Errorf("pixel (%d,%d) filled = %v, want %v", tt.x, tt.y, got, tt.filled)
			}
		})
	}
}

func TestAssetManager_UnknownTagFallsBack(t *testing.T) {
	am := NewAssetManager()
	if err := am.LoadAssets(); err != nil {
		t.Fatalf("LoadAssets: %v", err)
	}
	if am.Image("laser") != am.Image(entity.Bullet.String()) {
		t.Error("unknown tag should fall back to the bullet sprite")
	}
}

func TestInsidePolygon(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{0.5, 9.5, true},
		{-1, 5, false},
		{5, 11, false},
	}
	for _, tt := range tests {
		if got := insidePolygon(square, tt.x, tt.y); got != tt.want {
			t.Errorf("insidePolygon(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
