// pkg/render/terminal.go
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/entity"
	"github.com/opd-ai/go-arena/pkg/physics"
)

type cell struct {
	r     rune
	style tcell.Style
}

// TerminalRenderer draws snapshots as characters on a tcell screen. The
// frame is composed in its own buffer first and copied to the screen in
// one pass.
type TerminalRenderer struct {
	screen    tcell.Screen
	width     int
	height    int
	buffer    [][]cell
	scale     float64 // world units per column
	centerPos physics.Vector2D
	follow    entity.OptionalID
	quit      chan struct{}
}

// NewTerminalRenderer takes over the terminal. Close restores it.
func NewTerminalRenderer(scale float64) (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()

	width, height := screen.Size()
	r := newTerminalRenderer(screen, width, height, scale)
	go r.pollEvents()
	return r, nil
}

// newTerminalRenderer builds a renderer over screen, which may be nil to
// render into the buffer only.
func newTerminalRenderer(screen tcell.Screen, width, height int, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	r := &TerminalRenderer{
		screen: screen,
		scale:  scale,
		quit:   make(chan struct{}),
	}
	r.resize(width, height)
	return r
}

func (r *TerminalRenderer) resize(width, height int) {
	r.width, r.height = max(width, 0), max(height, 0)
	r.buffer = make([][]cell, r.height)
	for i := range r.buffer {
		r.buffer[i] = make([]cell, r.width)
	}
	r.clear()
}

// pollEvents watches for quit keys until the screen is finalized.
func (r *TerminalRenderer) pollEvents() {
	for {
		ev := r.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				r.signalQuit()
			}
		case *tcell.EventResize:
			r.screen.Sync()
		}
	}
}

func (r *TerminalRenderer) signalQuit() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
}

// Quit is closed when the user asks to leave.
func (r *TerminalRenderer) Quit() <-chan struct{} {
	return r.quit
}

// SetCenter fixes the view on pos and stops following.
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
	r.follow = entity.None()
}

// Follow keeps the view centered on id while it is alive.
func (r *TerminalRenderer) Follow(id entity.ID) {
	r.follow = entity.Some(id)
}

// worldToScreen converts world coordinates to screen coordinates. Rows are
// about twice as tall as columns are wide, so Y is halved.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor((pos.Y-r.centerPos.Y)/(2*r.scale) + float64(r.height)/2))
	return screenX, screenY
}

func (r *TerminalRenderer) clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = cell{r: ' ', style: tcell.StyleDefault}
		}
	}
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = cell{r: ch, style: style}
	}
}

// Render implements Renderer.
func (r *TerminalRenderer) Render(snap *engine.Snapshot) error {
	if snap == nil {
		return nil
	}
	if r.screen != nil {
		if w, h := r.screen.Size(); w != r.width || h != r.height {
			r.resize(w, h)
		}
	}

	r.draw(snap)

	if r.screen == nil {
		return nil
	}
	for y := range r.buffer {
		for x, c := range r.buffer[y] {
			r.screen.SetContent(x, y, c.r, nil, c.style)
		}
	}
	r.screen.Show()
	return nil
}

// draw composes snap into the buffer.
func (r *TerminalRenderer) draw(snap *engine.Snapshot) {
	r.clear()

	var followed *engine.EntityState
	if id, ok := r.follow.Get(); ok {
		if st, alive := snap.Find(id); alive {
			r.centerPos = st.Position
			followed = &st
		}
	}

	r.drawBorder(snap.HalfExtent)
	for _, st := range snap.Entities {
		r.drawEntity(st, followed != nil && st.ID == followed.ID)
	}

	status := fmt.Sprintf(" tick %d  entities %d ", snap.Tick, len(snap.Entities))
	if followed != nil {
		status += fmt.Sprintf(" %s  xp %.0f  hp %3.0f%% ", followed.Tag, followed.XP, followed.HPRatio*100)
	}
	for i, ch := range status {
		r.set(i, 0, ch, tcell.StyleDefault.Reverse(true))
	}
}

func (r *TerminalRenderer) drawBorder(h float64) {
	if h <= 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	x0, y0 := r.worldToScreen(physics.Vector2D{X: -h, Y: -h})
	x1, y1 := r.worldToScreen(physics.Vector2D{X: h, Y: h})
	for x := x0; x <= x1; x++ {
		r.set(x, y0, '-', style)
		r.set(x, y1, '-', style)
	}
	for y := y0; y <= y1; y++ {
		r.set(x0, y, '|', style)
		r.set(x1, y, '|', style)
	}
}

// drawEntity fills the entity's circle with its glyph. Entities smaller than
// a cell still take one.
func (r *TerminalRenderer) drawEntity(st engine.EntityState, followed bool) {
	ch, style := glyph(st, followed)
	cx, cy := r.worldToScreen(st.Position)

	rx := int(st.Radius / r.scale)
	ry := int(st.Radius / (2 * r.scale))
	if rx == 0 || ry == 0 {
		r.set(cx, cy, ch, style)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx, ny := float64(dx)/float64(rx), float64(dy)/float64(ry)
			if nx*nx+ny*ny <= 1 {
				r.set(cx+dx, cy+dy, ch, style)
			}
		}
	}
}

func glyph(st engine.EntityState, followed bool) (rune, tcell.Style) {
	switch st.Kind {
	case entity.KindTank:
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		if followed {
			style = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
		}
		return 'T', style

	case entity.KindShape:
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if st.Growing {
			style = style.Dim(true)
		}
		switch st.Tag {
		case entity.Triangle.String():
			return '^', style
		case entity.Pentagon.String():
			return 'P', style.Foreground(tcell.ColorBlue)
		case entity.Hexagon.String():
			return 'H', style.Foreground(tcell.ColorPurple)
		default:
			return '#', style
		}

	default:
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		switch st.Tag {
		case entity.Bomb.String(), entity.MBomb.String(), entity.TrapBomb.String():
			return 'o', style.Foreground(tcell.ColorOrange)
		case entity.Trap.String():
			return 'x', style
		case entity.Drone.String():
			return 'v', style.Foreground(tcell.ColorAqua)
		default:
			return '.', style
		}
	}
}

// Close implements Renderer and restores the terminal.
func (r *TerminalRenderer) Close() error {
	if r.screen != nil {
		r.screen.Fini()
	}
	return nil
}
