package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   uint64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Minimum viable population: if either kind stays below this for
// extinctionGraceTicks consecutive ticks, it counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTicks = 50
	warmupTicks          = 20
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64                  // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // one per telemetry window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative coexistence ticks: longer coexistence = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional extinction
// of either kind or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	result := &runResult{}
	collector := telemetry.NewCollector(cfg.Telemetry.WindowTicks)
	sim, err := systems.NewSimulation(&cfg, rand.New(rand.NewSource(seed)), systems.Options{Observer: collector})
	if err != nil {
		// Parameters the config rejects score as immediate extinction
		return result
	}

	var preyBelow, predBelow int
	for sim.Tick() < fe.maxTicks {
		if !sim.AdvanceTick() {
			break
		}
		tick := sim.Tick()

		if collector.ShouldFlush(tick) {
			result.windowStats = append(result.windowStats, collector.Flush(sim.Census()))
		}

		if tick < warmupTicks {
			continue
		}

		prey := sim.Grid().Count(components.KindPrey)
		pred := sim.Grid().Count(components.KindPredator)

		// Hard extinction: either kind completely gone
		if prey == 0 || pred == 0 {
			result.survivalTicks = tick
			return result
		}

		// Functional extinction: a kind below minimum viable population too long
		preyBelow = belowCount(prey, preyBelow)
		predBelow = belowCount(pred, predBelow)
		if preyBelow >= extinctionGraceTicks || predBelow >= extinctionGraceTicks {
			result.survivalTicks = tick
			return result
		}
	}

	result.survivalTicks = sim.Tick()
	return result
}

func belowCount(pop, run int) int {
	if pop < minViablePop {
		return run + 1
	}
	return 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func computeFitness(survivalTicks uint64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.30

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either kind < this
	targetPreyPerPred    = 10.0
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, huntSum float64
	var count int
	preyCounts := make([]float64, 0, len(valid))
	predCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}
		count++

		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		// Population ratio score, log-normal around the target
		ratio := float64(w.PreyCount) / float64(w.PredCount)
		logErr := math.Log(ratio / targetPreyPerPred)
		ratioSum += math.Exp(-logErr * logErr)

		// Hunting activity: kills per predator per window
		killsPerPred := float64(w.Kills) / float64(w.PredCount)
		huntSum += 1.0 - math.Exp(-killsPerPred)
	}

	if count == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := cv(preyCounts)
		cvPred := cv(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	quality := qualityWeightRatio*ratioSum/float64(count) +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntSum/float64(count)

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
