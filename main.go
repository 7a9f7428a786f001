package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/tui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	terminal := flag.Bool("tui", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config rng_seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	debug := flag.Bool("debug", false, "Check invariants after every tick")
	interval := flag.Duration("tui-interval", tui.DefaultInterval, "Delay between terminal updates")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Seed.RNGSeed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging). The terminal view
	// owns stdout, so logs go to stderr there.
	logOut := os.Stdout
	if *terminal {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Debug:          *debug,
		StepsPerUpdate: *stepsPerUpdate,
		Headless:       *headless || *terminal,
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	switch {
	case *terminal:
		runTerminal(g, *interval, *maxTicks)
	case *headless:
		runHeadless(g, rngSeed, *maxTicks, *stepsPerUpdate)
	default:
		runWindow(g, cfg, *maxTicks)
	}

	if err := g.Err(); err != nil {
		g.Logger().Error("run aborted", "tick", g.Tick(), "error", err)
		g.Unload()
		os.Exit(1)
	}
}

func runHeadless(g *game.Game, seed int64, maxTicks, stepsPerUpdate int) {
	g.Logger().Info("starting headless simulation",
		"seed", seed,
		"max_ticks", maxTicks,
		"steps_per_update", stepsPerUpdate,
	)

	for {
		g.UpdateHeadless()

		if g.Err() != nil {
			return
		}
		if g.Extinct() {
			g.Logger().Info("extinction", "tick", g.Tick())
			return
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			g.Logger().Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}

func runTerminal(g *game.Game, interval time.Duration, maxTicks int) {
	screen, err := tcell.NewScreen()
	if err != nil {
		g.Logger().Error("creating screen", "error", err)
		return
	}
	if err := screen.Init(); err != nil {
		g.Logger().Error("initializing screen", "error", err)
		return
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v := tui.NewViewer(screen, g, interval, uint64(max(0, maxTicks)))
	if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		g.Logger().Error("terminal view stopped", "error", err)
	}
}

func runWindow(g *game.Game, cfg *config.Config, maxTicks int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Grid Soup - "+g.RunID()[:8])
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}
