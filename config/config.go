// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gridsoup/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// MinGridSize is the smallest grid edge for which all 8 neighbors are distinct.
const MinGridSize = 3

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Population PopulationConfig `yaml:"population"`
	Health     HealthConfig     `yaml:"health"`
	Gene       GeneConfig       `yaml:"gene"`
	Mortality  MortalityConfig  `yaml:"mortality"`
	Movement   MovementConfig   `yaml:"movement"`
	Seed       SeedConfig       `yaml:"seed"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	HUDHeight int `yaml:"hud_height"` // Pixels reserved below the grid for the HUD
}

// GridConfig holds the toroidal grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds initial densities as fractions of all cells.
type PopulationConfig struct {
	PreyDensity     float64 `yaml:"prey_density"`
	PredatorDensity float64 `yaml:"predator_density"`
}

// HealthConfig holds starting health per kind. Parents are also reset to
// these values after reproducing.
type HealthConfig struct {
	PreyStarting     int `yaml:"prey_starting"`
	PredatorStarting int `yaml:"predator_starting"`
}

// GeneConfig holds the founder allocation and clone policy.
type GeneConfig struct {
	ClonePolicy string         `yaml:"clone_policy"` // founder | current
	Founder     traits.Founder `yaml:"founder"`
}

// MortalityConfig holds per-tick stochastic death chances.
type MortalityConfig struct {
	BaseChance  float64 `yaml:"base_chance"`  // survival_probability > 0
	FrailChance float64 `yaml:"frail_chance"` // survival_probability == 0
}

// MovementConfig toggles wandering into empty neighbors.
type MovementConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SeedConfig holds initial placement parameters.
type SeedConfig struct {
	RNGSeed    int64       `yaml:"rng_seed"` // 0 = caller picks (time-based in main)
	Pattern    string      `yaml:"pattern"`  // uniform | noise
	NoiseScale float64     `yaml:"noise_scale"`
	Placements []Placement `yaml:"placements"`
}

// Placement puts one organism at a fixed position after random seeding.
type Placement struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Kind string `yaml:"kind"` // prey | predator
}

// Seed patterns.
const (
	PatternUniform = "uniform"
	PatternNoise   = "noise"
)

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks         int `yaml:"window_ticks"`
	PerfWindow          int `yaml:"perf_window"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash       PreyCrashConfig       `yaml:"prey_crash"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ClonePolicy traits.ClonePolicy
	NumCells    int
	CellSize    int32 // Pixel edge of one cell in the graphical view
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and computes derived values.
// Out-of-range values are rejected, never clamped.
func (c *Config) Validate() error {
	if c.Grid.Width < MinGridSize || c.Grid.Height < MinGridSize {
		return fmt.Errorf("%w: grid %dx%d is smaller than %dx%d",
			ErrInvalidConfig, c.Grid.Width, c.Grid.Height, MinGridSize, MinGridSize)
	}

	p := c.Population
	if p.PreyDensity < 0 || p.PreyDensity > 1 {
		return fmt.Errorf("%w: prey_density %v outside [0, 1]", ErrInvalidConfig, p.PreyDensity)
	}
	if p.PredatorDensity < 0 || p.PredatorDensity > 1 {
		return fmt.Errorf("%w: predator_density %v outside [0, 1]", ErrInvalidConfig, p.PredatorDensity)
	}
	if p.PreyDensity+p.PredatorDensity > 1 {
		return fmt.Errorf("%w: densities sum to %v, more than 1", ErrInvalidConfig, p.PreyDensity+p.PredatorDensity)
	}

	if c.Health.PreyStarting <= 0 {
		return fmt.Errorf("%w: health.prey_starting %d must be positive", ErrInvalidConfig, c.Health.PreyStarting)
	}
	if c.Health.PredatorStarting <= 0 {
		return fmt.Errorf("%w: health.predator_starting %d must be positive", ErrInvalidConfig, c.Health.PredatorStarting)
	}

	if err := c.Gene.Founder.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	policy, err := traits.ParseClonePolicy(c.Gene.ClonePolicy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	m := c.Mortality
	if m.BaseChance < 0 || m.BaseChance > 1 || m.FrailChance < 0 || m.FrailChance > 1 {
		return fmt.Errorf("%w: mortality chances (%v, %v) outside [0, 1]", ErrInvalidConfig, m.BaseChance, m.FrailChance)
	}

	switch c.Seed.Pattern {
	case "", PatternUniform, PatternNoise:
	default:
		return fmt.Errorf("%w: unknown seed pattern %q", ErrInvalidConfig, c.Seed.Pattern)
	}
	for i, pl := range c.Seed.Placements {
		if pl.X < 0 || pl.X >= c.Grid.Width || pl.Y < 0 || pl.Y >= c.Grid.Height {
			return fmt.Errorf("%w: placement %d at (%d, %d) is off the grid", ErrInvalidConfig, i, pl.X, pl.Y)
		}
		if pl.Kind != "prey" && pl.Kind != "predator" {
			return fmt.Errorf("%w: placement %d has unknown kind %q", ErrInvalidConfig, i, pl.Kind)
		}
	}

	if c.Telemetry.WindowTicks < 1 {
		return fmt.Errorf("%w: telemetry.window_ticks %d must be at least 1", ErrInvalidConfig, c.Telemetry.WindowTicks)
	}

	c.computeDerived(policy)
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived(policy traits.ClonePolicy) {
	c.Derived.ClonePolicy = policy
	c.Derived.NumCells = c.Grid.Width * c.Grid.Height

	// Largest square cell that fits the grid in the area above the HUD
	cw := c.Screen.Width / c.Grid.Width
	ch := (c.Screen.Height - c.Screen.HUDHeight) / c.Grid.Height
	size := min(cw, ch)
	if size < 1 {
		size = 1
	}
	c.Derived.CellSize = int32(size)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
