// Package tui draws the grid in a terminal with tcell, one glyph per cell.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/systems"
)

// Model is the run being viewed.
type Model interface {
	Grid() *systems.Grid
	Tick() uint64
	Census() systems.Census
	Extinct() bool
	UpdateHeadless()
}

var (
	preyStyle     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	predatorStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// DefaultInterval is the delay between updates when none is given.
const DefaultInterval = 50 * time.Millisecond

// Glyphs per kind.
const (
	PreyGlyph     = 'o'
	PredatorGlyph = 'X'
	EmptyGlyph    = ' '
)

// Viewer renders a Model and handles keys. q or Esc quits, space pauses,
// n steps once while paused.
type Viewer struct {
	screen   tcell.Screen
	model    Model
	interval time.Duration
	maxTicks uint64
	paused   bool
}

// NewViewer creates a viewer drawing onto an initialized screen. A tick
// limit of 0 runs until extinction or quit.
func NewViewer(screen tcell.Screen, model Model, interval time.Duration, maxTicks uint64) *Viewer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Viewer{
		screen:   screen,
		model:    model,
		interval: interval,
		maxTicks: maxTicks,
	}
}

// Run drives the model until the user quits, ctx is done, the grid goes
// extinct or the tick limit is reached.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	v.Render()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if v.handleEvent(ev) {
				return nil
			}
			v.Render()
		case <-ticker.C:
			if v.paused {
				continue
			}
			v.model.UpdateHeadless()
			v.Render()
			if v.done() {
				return nil
			}
		}
	}
}

func (v *Viewer) done() bool {
	if v.model.Extinct() {
		return true
	}
	return v.maxTicks > 0 && v.model.Tick() >= v.maxTicks
}

// handleEvent applies one terminal event and reports whether to quit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			return true
		}
		switch ev.Rune() {
		case ' ':
			v.paused = !v.paused
		case 'n':
			if v.paused {
				v.model.UpdateHeadless()
			}
		}
	}
	return false
}

// Render draws the visible part of the grid and a status line on the last row.
func (v *Viewer) Render() {
	v.screen.Clear()
	w, h := v.screen.Size()
	rows := h - 1

	grid := v.model.Grid()
	grid.Each(func(_ int, c *components.Cell) {
		if c.X >= w || c.Y >= rows {
			return
		}
		glyph, style := Glyph(c.Kind)
		v.screen.SetContent(c.X, c.Y, glyph, nil, style)
	})

	census := v.model.Census()
	status := fmt.Sprintf("tick %d  prey %d  predators %d", v.model.Tick(), census.Prey, census.Predators)
	switch {
	case v.model.Extinct():
		status += "  EXTINCT"
	case v.paused:
		status += "  PAUSED"
	}
	v.drawStatus(rows, w, status)

	v.screen.Show()
}

func (v *Viewer) drawStatus(y, width int, text string) {
	if y < 0 {
		return
	}
	runes := []rune(text)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		v.screen.SetContent(x, y, r, nil, statusStyle)
	}
}

// Glyph returns the rune and style a cell of the given kind is drawn with.
func Glyph(k components.Kind) (rune, tcell.Style) {
	switch k {
	case components.KindPrey:
		return PreyGlyph, preyStyle
	case components.KindPredator:
		return PredatorGlyph, predatorStyle
	default:
		return EmptyGlyph, tcell.StyleDefault
	}
}
