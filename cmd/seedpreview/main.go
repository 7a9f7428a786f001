// Seed preview tool - interactive visualization of initial placement with sliders.
//
// Usage: go run ./cmd/seedpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// SeedParams holds the tunable seeding parameters.
type SeedParams struct {
	PreyDensity     float32
	PredatorDensity float32
	NoiseScale      float32
	Noise           bool
	Seed            int64
}

func paramsFromConfig(cfg *config.Config) SeedParams {
	return SeedParams{
		PreyDensity:     float32(cfg.Population.PreyDensity),
		PredatorDensity: float32(cfg.Population.PredatorDensity),
		NoiseScale:      float32(cfg.Seed.NoiseScale),
		Noise:           cfg.Seed.Pattern == config.PatternNoise,
		Seed:            12345,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	gw, gh := base.Grid.Width, base.Grid.Height

	rl.InitWindow(windowWidth, windowHeight, "Seed Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := paramsFromConfig(base)

	// Create texture for rendering, one pixel per cell
	img := rl.GenImageColor(gw, gh, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var census systems.Census
	showField := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		// Regenerate if needed
		if needsRegen {
			sim, err := seed(base, params)
			if err != nil {
				slog.Warn("invalid parameters", "error", err)
			} else {
				census = sim.Census()
				if field := sim.Seeder().Density(); showField && field != nil {
					updateFieldTexture(texture, field, gw, gh)
				} else {
					updateGridTexture(texture, sim.Grid())
				}
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gw), Height: float32(gh)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		statsY := int32(previewSize + 25)
		total := float32(census.Prey + census.Predators + census.Empty)
		if total > 0 {
			rl.DrawText(fmt.Sprintf("Prey: %d (%.1f%%)  Predators: %d (%.1f%%)",
				census.Prey, 100*float32(census.Prey)/total,
				census.Predators, 100*float32(census.Predators)/total), 15, statsY, 16, rl.DarkGray)
		}
		rl.DrawText(fmt.Sprintf("Grid: %dx%d", gw, gh), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Seeding Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, minText, maxText string, value, lo, hi float32, format string) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				minText, maxText,
				value, lo, hi,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := slider("Prey density", "0", "1", params.PreyDensity, 0, 1, "%.2f"); v != params.PreyDensity {
			params.PreyDensity = v
			needsRegen = true
		}
		if v := slider("Predator density", "0", "1", params.PredatorDensity, 0, 1, "%.2f"); v != params.PredatorDensity {
			params.PredatorDensity = v
			needsRegen = true
		}
		if v := slider("Noise scale (cycles per cell)", "0.01", "0.5", params.NoiseScale, 0.01, 0.5, "%.3f"); v != params.NoiseScale {
			params.NoiseScale = v
			needsRegen = true
		}
		if v := slider("Seed", "0", "99999", float32(params.Seed), 0, 99999, "%.0f"); int64(v) != params.Seed {
			params.Seed = int64(v)
			needsRegen = true
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Noise, "Uniform", "Noise")) {
			params.Noise = !params.Noise
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showField, "Show Grid", "Show Field")) {
			showField = !showField
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = paramsFromConfig(base)
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// seed builds a fresh simulation from base with params applied.
func seed(base *config.Config, params SeedParams) (*systems.Simulation, error) {
	cfg := *base
	cfg.Population.PreyDensity = float64(params.PreyDensity)
	cfg.Population.PredatorDensity = float64(params.PredatorDensity)
	cfg.Seed.NoiseScale = float64(params.NoiseScale)
	cfg.Seed.Pattern = toggleText(params.Noise, config.PatternNoise, config.PatternUniform)

	return systems.NewSimulation(&cfg, rand.New(rand.NewSource(params.Seed)), systems.Options{})
}

func yamlLines(params SeedParams) []string {
	return []string{
		"population:",
		fmt.Sprintf("  prey_density: %.2f", params.PreyDensity),
		fmt.Sprintf("  predator_density: %.2f", params.PredatorDensity),
		"seed:",
		fmt.Sprintf("  pattern: %s", toggleText(params.Noise, config.PatternNoise, config.PatternUniform)),
		fmt.Sprintf("  noise_scale: %.3f", params.NoiseScale),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateGridTexture colors each pixel by the kind of its cell.
func updateGridTexture(texture rl.Texture2D, g *systems.Grid) {
	pixels := make([]color.RGBA, g.Len())
	g.Each(func(i int, c *components.Cell) {
		switch c.Kind {
		case components.KindPrey:
			pixels[i] = color.RGBA{G: 200, A: 255}
		case components.KindPredator:
			pixels[i] = color.RGBA{R: 220, A: 255}
		default:
			pixels[i] = color.RGBA{A: 255}
		}
	})
	rl.UpdateTexture(texture, pixels)
}

// updateFieldTexture shows the density weight as a dark blue to white gradient.
func updateFieldTexture(texture rl.Texture2D, field *systems.DensityField, w, h int) {
	pixels := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := field.Weight(x, y) / 2
			pixels[y*w+x] = color.RGBA{
				R: uint8(10 + v*245),
				G: uint8(20 + v*235),
				B: uint8(60 + v*195),
				A: 255,
			}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
