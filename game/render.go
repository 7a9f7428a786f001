package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/telemetry"
	"github.com/pthm-cable/gridsoup/traits"
	"github.com/pthm-cable/gridsoup/ui"
)

// Draw renders the grid, the HUD and any open panels.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ui.EmptyColor)

	g.drawGrid()
	g.drawSelectionIndicator()
	g.drawUI()

	rl.EndDrawing()
}

// drawGrid draws every visible living organism as a filled square.
func (g *Game) drawGrid() {
	cam := g.camera
	size := int32(math.Ceil(float64(cam.CellSize())))

	rl.BeginScissorMode(0, 0, int32(cam.ViewportW), int32(cam.ViewportH))
	g.sim.Grid().Each(func(_ int, c *components.Cell) {
		if !c.Alive() || !cam.IsVisible(c.X, c.Y) {
			return
		}
		sx, sy := cam.WorldToScreen(float32(c.X), float32(c.Y))
		rl.DrawRectangle(int32(sx), int32(sy), size, size, ui.CellColor(c))
	})
	rl.EndScissorMode()
}

func (g *Game) drawSelectionIndicator() {
	c := g.SelectedCell()
	if c == nil {
		return
	}
	if !g.camera.IsVisible(c.X, c.Y) {
		return
	}
	size := g.camera.CellSize()
	sx, sy := g.camera.WorldToScreen(float32(c.X), float32(c.Y))
	rect := rl.Rectangle{
		X:      sx - 1,
		Y:      sy - 1,
		Width:  size + 2,
		Height: size + 2,
	}
	rl.DrawRectangleLinesEx(rect, 1, rl.Yellow)
}

func (g *Game) drawUI() {
	data := ui.HUDData{
		Tick:           g.sim.Tick(),
		Prey:           g.lastCensus.Prey,
		Predators:      g.lastCensus.Predators,
		Empty:          g.lastCensus.Empty,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Extinct:        g.Extinct(),
	}
	for i := 0; i < traits.NumTraits; i++ {
		data.TraitMeans[i] = telemetry.Mean(g.lastCensus.Traits[i])
	}
	data.FundsMean = telemetry.Mean(g.lastCensus.PointFunds)

	act := g.hud.Draw(data)
	if act.TogglePause {
		g.paused = !g.paused
	}
	if act.Step {
		g.paused = true
		g.stepOnce = true
	}

	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if c := g.SelectedCell(); c != nil {
		g.inspector.Draw(c)
	}
}
