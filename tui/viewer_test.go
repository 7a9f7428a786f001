package tui

import (
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/systems"
)

// simModel adapts a bare Simulation to Model.
type simModel struct {
	sim *systems.Simulation
}

func (m *simModel) Grid() *systems.Grid    { return m.sim.Grid() }
func (m *simModel) Tick() uint64           { return m.sim.Tick() }
func (m *simModel) Census() systems.Census { return m.sim.Census() }
func (m *simModel) Extinct() bool          { return m.sim.IsExtinct() }
func (m *simModel) UpdateHeadless()        { m.sim.AdvanceTick() }

func newModel(t *testing.T, w, h int) *simModel {
	t.Helper()
	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = w, h
	cfg.Population.PreyDensity = 0.5
	cfg.Population.PredatorDensity = 0.2
	sim, err := systems.NewSimulation(cfg, rand.New(rand.NewSource(3)), systems.Options{})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return &simModel{sim: sim}
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func TestRenderDrawsEveryVisibleCell(t *testing.T) {
	m := newModel(t, 10, 6)
	s := newScreen(t, 20, 10)
	v := NewViewer(s, m, 0, 0)

	v.Render()

	m.Grid().Each(func(_ int, c *components.Cell) {
		got, _, _, _ := s.GetContent(c.X, c.Y)
		want, _ := Glyph(c.Kind)
		if got != want {
			t.Errorf("cell (%d, %d) %s: glyph %q, want %q", c.X, c.Y, c.Kind, got, want)
		}
	})
}

func TestRenderClipsToScreen(t *testing.T) {
	m := newModel(t, 30, 30)
	s := newScreen(t, 8, 5)
	v := NewViewer(s, m, 0, 0)

	// Must not panic; the last row is the status line
	v.Render()

	got, _, _, _ := s.GetContent(0, 4)
	if got != 't' {
		t.Errorf("status line starts with %q, want 't'", got)
	}
}

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name       string
		ev         tcell.Event
		wantQuit   bool
		wantPaused bool
	}{
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true, false},
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true, false},
		{"space pauses", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), false, true},
		{"other keys ignored", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewer(newScreen(t, 10, 10), newModel(t, 5, 5), 0, 0)
			if got := v.handleEvent(tt.ev); got != tt.wantQuit {
				t.Errorf("quit = %v, want %v", got, tt.wantQuit)
			}
			if v.paused != tt.wantPaused {
				t.Errorf("paused = %v, want %v", v.paused, tt.wantPaused)
			}
		})
	}
}

func TestStepWhilePaused(t *testing.T) {
	m := newModel(t, 5, 5)
	v := NewViewer(newScreen(t, 10, 10), m, 0, 0)

	v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	if m.Tick() != 0 {
		t.Fatalf("n advanced an unpaused viewer to tick %d", m.Tick())
	}

	v.paused = true
	v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	if m.Tick() != 1 {
		t.Errorf("tick = %d after stepping, want 1", m.Tick())
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		kind components.Kind
		want rune
	}{
		{components.KindEmpty, EmptyGlyph},
		{components.KindPrey, PreyGlyph},
		{components.KindPredator, PredatorGlyph},
	}
	for _, tt := range tests {
		if got, _ := Glyph(tt.kind); got != tt.want {
			t.Errorf("Glyph(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
