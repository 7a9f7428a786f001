package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population counts at window end
	PreyCount  int `csv:"prey"`
	PredCount  int `csv:"pred"`
	EmptyCount int `csv:"empty"`

	// Events during window
	PreyBirths int `csv:"prey_births"`
	PredBirths int `csv:"pred_births"`
	PreyDeaths int `csv:"prey_deaths"`
	PredDeaths int `csv:"pred_deaths"`
	Kills      int `csv:"kills"`
	PreyMoves  int `csv:"prey_moves"`
	PredMoves  int `csv:"pred_moves"`

	// Deaths by cause during window
	DeathsStarvation int `csv:"deaths_starvation"`
	DeathsAge        int `csv:"deaths_age"`
	DeathsChance     int `csv:"deaths_chance"`
	DeathsEaten      int `csv:"deaths_eaten"`

	// Health distribution (sampled at window end)
	PreyHealthMean float64 `csv:"prey_health_mean"`
	PreyHealthStd  float64 `csv:"prey_health_std"`
	PreyHealthP10  float64 `csv:"prey_health_p10"`
	PreyHealthP50  float64 `csv:"prey_health_p50"`
	PreyHealthP90  float64 `csv:"prey_health_p90"`

	PredHealthMean float64 `csv:"pred_health_mean"`
	PredHealthStd  float64 `csv:"pred_health_std"`
	PredHealthP10  float64 `csv:"pred_health_p10"`
	PredHealthP50  float64 `csv:"pred_health_p50"`
	PredHealthP90  float64 `csv:"pred_health_p90"`

	// Mean trait values across all living organisms
	SurvivalMean    float64 `csv:"survival_mean"`
	DeathThreshMean float64 `csv:"death_threshold_mean"`
	ReproThreshMean float64 `csv:"reproduce_threshold_mean"`
	MaxHealthMean   float64 `csv:"max_health_mean"`
	MaxAgeMean      float64 `csv:"max_age_mean"`
	TwinMean        float64 `csv:"twin_mean"`
	PointFundsMean  float64 `csv:"point_funds_mean"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, sample standard deviation and empirical
// percentiles. An empty sample yields all zeros and a single value has zero
// spread.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// Percentile returns the empirical p-th quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = max(0, min(1, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("empty", s.EmptyCount),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("prey_moves", s.PreyMoves),
		slog.Int("pred_moves", s.PredMoves),
		slog.Int("deaths_starvation", s.DeathsStarvation),
		slog.Int("deaths_age", s.DeathsAge),
		slog.Int("deaths_chance", s.DeathsChance),
		slog.Int("deaths_eaten", s.DeathsEaten),
		slog.Float64("prey_health_mean", s.PreyHealthMean),
		slog.Float64("prey_health_p50", s.PreyHealthP50),
		slog.Float64("pred_health_mean", s.PredHealthMean),
		slog.Float64("pred_health_p50", s.PredHealthP50),
		slog.Float64("survival_mean", s.SurvivalMean),
		slog.Float64("death_threshold_mean", s.DeathThreshMean),
		slog.Float64("reproduce_threshold_mean", s.ReproThreshMean),
		slog.Float64("max_health_mean", s.MaxHealthMean),
		slog.Float64("max_age_mean", s.MaxAgeMean),
		slog.Float64("twin_mean", s.TwinMean),
		slog.Float64("point_funds_mean", s.PointFundsMean),
	)
}

// LogStats logs a "stats" line through logger, or the default logger when nil.
// Pass the run's logger so the line carries its run_id.
func (s WindowStats) LogStats(logger *slog.Logger) {
	loggerOrDefault(logger).Info("stats",
		"window_end", s.WindowEndTick,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_deaths", s.PreyDeaths,
		"pred_deaths", s.PredDeaths,
		"kills", s.Kills,
		"deaths_starvation", s.DeathsStarvation,
		"deaths_age", s.DeathsAge,
		"deaths_chance", s.DeathsChance,
		"prey_health_mean", s.PreyHealthMean,
		"pred_health_mean", s.PredHealthMean,
		"survival_mean", s.SurvivalMean,
		"reproduce_threshold_mean", s.ReproThreshMean,
		"max_age_mean", s.MaxAgeMean,
		"twin_mean", s.TwinMean,
		"point_funds_mean", s.PointFundsMean,
	)
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
