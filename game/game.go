// Package game wires the simulation, telemetry and views together.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/gridsoup/camera"
	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
	"github.com/pthm-cable/gridsoup/ui"
)

// Options configures a game beyond the config file.
type Options struct {
	Seed           int64
	LogStats       bool   // Log window stats and bookmarks via slog
	OutputDir      string // Directory for CSV output (empty = disabled)
	Debug          bool   // Check invariants after every tick
	StepsPerUpdate int    // Ticks per Update call
	Headless       bool   // Skip all raylib resources
}

// Game holds the complete run state.
type Game struct {
	cfg    *config.Config
	sim    *systems.Simulation
	runID  string
	logger *slog.Logger

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	lastCensus       systems.Census

	// UI (nil when headless)
	camera    *camera.Camera
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector

	// State
	paused         bool
	stepOnce       bool
	stepsPerUpdate int
	selected       int // arena index of the inspected cell, -1 for none
	showPerf       bool
	headless       bool
	err            error
}

// NewGameWithOptions builds a game from cfg. The simulation is seeded
// immediately; output files are created when opts.OutputDir is set.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID)

	collector := telemetry.NewCollector(cfg.Telemetry.WindowTicks)
	rng := rand.New(rand.NewSource(opts.Seed))

	sim, err := systems.NewSimulation(cfg, rng, systems.Options{
		Observer: collector,
		Debug:    opts.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		sim:              sim,
		runID:            runID,
		logger:           logger,
		collector:        collector,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, sim.Grid().Len()),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		outputManager:    output,
		logStats:         opts.LogStats,
		stepsPerUpdate:   steps,
		selected:         -1,
		headless:         opts.Headless,
	}
	g.lastCensus = sim.Census()

	if output != nil {
		if err := output.WriteConfig(cfg); err != nil {
			output.Close()
			return nil, err
		}
		if err := output.WriteRunInfo(telemetry.RunInfo{RunID: runID, Seed: opts.Seed, Started: time.Now()}); err != nil {
			output.Close()
			return nil, err
		}
		logger.Info("writing output", "dir", output.Dir())
	}

	if !opts.Headless {
		g.initUI()
	}

	logger.Info("simulation seeded",
		"seed", opts.Seed,
		"grid_width", cfg.Grid.Width,
		"grid_height", cfg.Grid.Height,
		"prey", g.lastCensus.Prey,
		"predators", g.lastCensus.Predators,
	)

	return g, nil
}

func (g *Game) initUI() {
	g.camera = camera.New(g.cfg.Grid.Width, g.cfg.Grid.Height, float32(g.cfg.Derived.CellSize))
	gridH := int32(g.cfg.Grid.Height) * g.cfg.Derived.CellSize
	width := int32(g.cfg.Screen.Width)
	g.hud = ui.NewHUD(0, gridH, width, int32(g.cfg.Screen.HUDHeight))
	g.perfPanel = ui.NewPerfPanel(10, 10)
	g.inspector = ui.NewInspector(width-230, 10, 220)
}

// UpdateHeadless runs stepsPerUpdate ticks without reading input.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if !g.step() {
			return
		}
	}
}

// Update reads input and advances the simulation unless paused.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()

	if g.paused {
		if g.stepOnce {
			g.stepOnce = false
			g.step()
		}
		return
	}

	g.UpdateHeadless()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 { return g.sim.Tick() }

// Extinct reports whether the grid has no organisms left.
func (g *Game) Extinct() bool { return g.lastCensus.Living() == 0 }

// Err returns the invariant failure that stopped the run, if any.
func (g *Game) Err() error { return g.err }

// Census returns the population snapshot taken after the last tick.
func (g *Game) Census() systems.Census { return g.lastCensus }

// RunID returns the unique identifier of this run.
func (g *Game) RunID() string { return g.runID }

// Logger returns the run's logger, which tags every line with run_id.
func (g *Game) Logger() *slog.Logger { return g.logger }

// Grid returns the simulation grid for read access.
func (g *Game) Grid() *systems.Grid { return g.sim.Grid() }

// SelectedCell returns the inspected cell, or nil.
func (g *Game) SelectedCell() *components.Cell {
	if g.selected < 0 {
		return nil
	}
	return g.sim.Grid().Cell(g.selected)
}

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
