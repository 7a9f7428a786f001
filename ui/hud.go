package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
	"github.com/pthm-cable/gridsoup/traits"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tick           uint64
	Prey           int
	Predators      int
	Empty          int
	TraitMeans     [traits.NumTraits]float64
	FundsMean      float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Extinct        bool
}

// HUDAction reports which HUD buttons were clicked this frame.
type HUDAction struct {
	TogglePause bool
	Step        bool
}

// HUD renders the status strip below the grid.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewHUD creates a HUD occupying the strip at (x, y).
func NewHUD(x, y, width, height int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Draw renders the HUD and its buttons.
func (h *HUD) Draw(data HUDData) HUDAction {
	r := h.renderer
	r.DrawPanel(h.x, h.y, h.width, h.height)

	x := h.x + r.Theme.Padding
	y := h.y + r.Theme.Padding/2

	// Population counts
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Prey: %d | Pred: %d | Empty: %d", data.Tick, data.Prey, data.Predators, data.Empty),
		x, y, 16, rl.White,
	)
	y += 20

	// Trait means, two rows of three
	for row := 0; row < 2; row++ {
		line := ""
		for col := 0; col < 3; col++ {
			i := row*3 + col
			line += fmt.Sprintf("%s %.2f   ", shortTraitNames[i], data.TraitMeans[i])
		}
		if row == 1 {
			line += fmt.Sprintf("funds %.2f", data.FundsMean)
		}
		rl.DrawText(line, x, y, 12, r.Theme.LabelColor)
		y += r.Theme.LineHeight
	}

	// Simulation info
	status := "Running"
	statusColor := rl.LightGray
	switch {
	case data.Extinct:
		status, statusColor = "EXTINCT", rl.Red
	case data.Paused:
		status, statusColor = "PAUSED", rl.Yellow
	}
	rl.DrawText(
		fmt.Sprintf("%s | Steps/frame: %d [,/.] | FPS: %d", status, data.StepsPerUpdate, data.FPS),
		x, y, 14, statusColor,
	)

	// Buttons on the right edge
	bx := float32(h.x + h.width - 2*(buttonWidth+8))
	by := float32(h.y + r.Theme.Padding)
	var act HUDAction
	label := "Pause"
	if data.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: buttonWidth, Height: 30}, label) {
		act.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: bx + buttonWidth + 8, Y: by, Width: buttonWidth, Height: 30}, "Step") {
		act.Step = true
	}

	return act
}

const buttonWidth = 80

var shortTraitNames = [traits.NumTraits]string{"surv", "pdt", "repro", "maxhp", "maxage", "twin"}

// PerfPanel renders tick phase timings in the top-left corner.
type PerfPanel struct {
	x, y     int32
	registry *systems.SystemRegistry
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y, registry: systems.NewSystemRegistry()}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText(fmt.Sprintf("Tick: %dus avg, %dus p90 | %.0f ticks/s | %.1fM cells/s", stats.AvgTickDuration.Microseconds(), stats.P90TickDuration.Microseconds(), stats.TicksPerSecond, stats.CellsPerSecond/1e6), x, y, 14, rl.Yellow)
	y += 16

	for _, info := range p.registry.All() {
		pct, ok := stats.PhasePct[info.ID]
		if !ok {
			continue
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(fmt.Sprintf("%-12s %5.1f%%", info.Name, pct), x, y, 12, color)
		y += 14
	}
}
