// Package main provides CMA-ES optimization for grid ecosystem parameters.
package main

import (
	"math"

	"github.com/pthm-cable/gridsoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Population
			{Name: "prey_density", Path: "population.prey_density", Min: 0.02, Max: 0.6, Default: 0.10},
			{Name: "predator_density", Path: "population.predator_density", Min: 0.005, Max: 0.2, Default: 0.02},
			// Health
			{Name: "prey_starting", Path: "health.prey_starting", Min: 1, Max: 6, Default: 1, Integer: true},
			{Name: "predator_starting", Path: "health.predator_starting", Min: 2, Max: 12, Default: 5, Integer: true},
			// Mortality
			{Name: "base_chance", Path: "mortality.base_chance", Min: 0, Max: 0.15, Default: 0.05},
			{Name: "frail_chance", Path: "mortality.frail_chance", Min: 0, Max: 0.3, Default: 0.10},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// FromConfig reads the current parameter values out of cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Population.PreyDensity,
		cfg.Population.PredatorDensity,
		float64(cfg.Health.PreyStarting),
		float64(cfg.Health.PredatorStarting),
		cfg.Mortality.BaseChance,
		cfg.Mortality.FrailChance,
	}
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Population.PreyDensity = clamped[0]
	cfg.Population.PredatorDensity = clamped[1]
	cfg.Health.PreyStarting = int(clamped[2])
	cfg.Health.PredatorStarting = int(clamped[3])
	cfg.Mortality.BaseChance = clamped[4]
	cfg.Mortality.FrailChance = clamped[5]

	// Both densities have upper bounds well below 1, but keep their sum valid
	if sum := cfg.Population.PreyDensity + cfg.Population.PredatorDensity; sum > 1 {
		cfg.Population.PreyDensity /= sum
		cfg.Population.PredatorDensity /= sum
	}
}
