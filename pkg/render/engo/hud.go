// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/event"
)

const (
	hudFontURL  = "hud/gomono.ttf"
	hudFontSize = 16
	lineHeight  = 20
	maxFeed     = 5
)

// hudLine is one text row on screen.
type hudLine struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
}

// HUDSystem draws the player's status and a feed of recent kills.
type HUDSystem struct {
	system spriteSystem
	font   *common.Font
	rows   []*hudLine

	player entity.OptionalID
	status []string
	feed   []string

	hudColor color.Color
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(player entity.OptionalID) *HUDSystem {
	return &HUDSystem{
		player:   player,
		hudColor: color.White,
	}
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Attach gives the HUD a font and the render system its text rows live in.
func (hud *HUDSystem) Attach(system spriteSystem, font *common.Font) {
	hud.system = system
	hud.font = font
}

// Update draws the current lines.
func (hud *HUDSystem) Update(dt float32) {
	if hud.system == nil || hud.font == nil {
		return
	}
	lines := hud.Lines()
	for i, text := range lines {
		if i == len(hud.rows) {
			hud.addRow(text)
			continue
		}
		hud.rows[i].render.Drawable = common.Text{Font: hud.font, Text: text}
	}
	for _, row := range hud.rows[len(lines):] {
		row.render.Drawable = common.Text{Font: hud.font}
	}
}

// addRow creates the next text row. The drawable must be text before the
// render system sees it, since the system picks its shader on Add.
func (hud *HUDSystem) addRow(text string) {
	row := &hudLine{basic: ecs.NewBasic()}
	row.render.Drawable = common.Text{Font: hud.font, Text: text}
	row.render.Color = hud.hudColor
	row.render.SetZIndex(10)
	row.space.Position = engo.Point{X: 10, Y: float32(10 + len(hud.rows)*lineHeight)}
	hud.rows = append(hud.rows, row)
	hud.system.Add(&row.basic, &row.render, &row.space)
}

// SetSnapshot refreshes the status lines from snap.
func (hud *HUDSystem) SetSnapshot(snap *engine.Snapshot) {
	hud.status = hud.status[:0]
	if snap == nil {
		return
	}
	hud.status = append(hud.status, fmt.Sprintf("tick %d  entities %d", snap.Tick, len(snap.Entities)))

	id, ok := hud.player.Get()
	if !ok {
		return
	}
	me, alive := snap.Find(id)
	if !alive {
		hud.status = append(hud.status, "destroyed")
		return
	}
	hud.status = append(hud.status,
		fmt.Sprintf("%s  xp %.0f", me.Tag, me.XP),
		fmt.Sprintf("hp %3.0f%%", me.HPRatio*100))
}

// AddKill records a tank death in the feed, newest first.
func (hud *HUDSystem) AddKill(ev *event.KillEvent) {
	killer := "the arena"
	if id, ok := ev.Killer.Get(); ok {
		killer = hud.name(id)
	}
	line := fmt.Sprintf("%s killed %s (%s)", killer, hud.name(ev.TankID), ev.Class)

	hud.feed = append([]string{line}, hud.feed...)
	if len(hud.feed) > maxFeed {
		hud.feed = hud.feed[:maxFeed]
	}
}

func (hud *HUDSystem) name(id entity.ID) string {
	if p, ok := hud.player.Get(); ok && p == id {
		return "you"
	}
	return id.Short()
}

// Lines returns every line the HUD shows, status first.
func (hud *HUDSystem) Lines() []string {
	lines := make([]string, 0, len(hud.status)+1+len(hud.feed))
	lines = append(lines, hud.status...)
	if len(hud.feed) > 0 {
		lines = append(lines, "")
		lines = append(lines, hud.feed...)
	}
	return lines
}

// Detach removes the text rows from the render system.
func (hud *HUDSystem) Detach() {
	if hud.system == nil {
		return
	}
	for _, row := range hud.rows {
		hud.system.Remove(row.basic)
	}
	hud.rows = nil
}

// loadHUDFont registers the embedded Go Mono face with engo and prepares it.
func loadHUDFont() (*common.Font, error) {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return nil, fmt.Errorf("loading hud font: %w", err)
	}
	fnt := &common.Font{URL: hudFontURL, FG: color.White, Size: hudFontSize}
	if err := fnt.CreatePreloaded(); err != nil {
		return nil, fmt.Errorf("preparing hud font: %w", err)
	}
	return fnt, nil
}
