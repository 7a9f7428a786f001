package telemetry

import (
	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/traits"
)

var _ systems.Observer = (*Collector)(nil)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks uint64

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window, indexed by kind
	births [components.NumKinds]int
	deaths [components.NumKinds]int
	moves  [components.NumKinds]int
	causes [components.NumDeathCauses]int
	kills  int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	c.births[kind]++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind, cause components.DeathCause) {
	c.deaths[kind]++
	c.causes[cause]++
}

// RecordKill records a predator eating a prey.
func (c *Collector) RecordKill() {
	c.kills++
}

// RecordMove records an organism stepping into a neighbor cell.
func (c *Collector) RecordMove(kind components.Kind) {
	c.moves[kind]++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the window's events and a census taken at
// its end, then resets counters for the next window.
func (c *Collector) Flush(census systems.Census) WindowStats {
	prey := Summarize(census.PreyHealth)
	pred := Summarize(census.PredatorHealth)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   census.Tick,

		PreyCount:  census.Prey,
		PredCount:  census.Predators,
		EmptyCount: census.Empty,

		PreyBirths: c.births[components.KindPrey],
		PredBirths: c.births[components.KindPredator],
		PreyDeaths: c.deaths[components.KindPrey],
		PredDeaths: c.deaths[components.KindPredator],
		Kills:      c.kills,
		PreyMoves:  c.moves[components.KindPrey],
		PredMoves:  c.moves[components.KindPredator],

		DeathsStarvation: c.causes[components.DeathStarvation],
		DeathsAge:        c.causes[components.DeathAge],
		DeathsChance:     c.causes[components.DeathChance],
		DeathsEaten:      c.causes[components.DeathEaten],

		PreyHealthMean: prey.Mean,
		PreyHealthStd:  prey.Std,
		PreyHealthP10:  prey.P10,
		PreyHealthP50:  prey.P50,
		PreyHealthP90:  prey.P90,

		PredHealthMean: pred.Mean,
		PredHealthStd:  pred.Std,
		PredHealthP10:  pred.P10,
		PredHealthP50:  pred.P50,
		PredHealthP90:  pred.P90,

		SurvivalMean:    Mean(census.Traits[traits.TraitSurvival]),
		DeathThreshMean: Mean(census.Traits[traits.TraitPredatorDeathThreshold]),
		ReproThreshMean: Mean(census.Traits[traits.TraitReproduceThreshold]),
		MaxHealthMean:   Mean(census.Traits[traits.TraitMaxHealth]),
		MaxAgeMean:      Mean(census.Traits[traits.TraitMaxAge]),
		TwinMean:        Mean(census.Traits[traits.TraitTwinLikelihood]),
		PointFundsMean:  Mean(census.PointFunds),
	}

	// Reset for next window
	c.windowStartTick = census.Tick
	c.births = [components.NumKinds]int{}
	c.deaths = [components.NumKinds]int{}
	c.moves = [components.NumKinds]int{}
	c.causes = [components.NumDeathCauses]int{}
	c.kills = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
