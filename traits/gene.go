// Package traits defines the heritable gene carried by every organism.
//
// A gene is a fixed set of six bounded integer traits plus a pool of unspent
// points. Mutation moves exactly one point between a trait and the pool, so the
// total number of points in a gene never changes.
package traits

import (
	"errors"
	"fmt"
	"math/rand"
)

// NumTraits is the number of traits in a gene.
const NumTraits = 6

// ErrInvalidFounder is returned when a founder configuration cannot produce a valid gene.
var ErrInvalidFounder = errors.New("invalid founder gene")

// Trait is a bounded point allocation. Value stays within [0, Max].
type Trait struct {
	Max   int `yaml:"max"`
	Value int `yaml:"value"`
}

// Fraction returns Value/Max, the probability reading of the trait.
func (t Trait) Fraction() float64 {
	if t.Max <= 0 {
		return 0
	}
	return float64(t.Value) / float64(t.Max)
}

// AtMax reports whether the trait cannot take another point.
func (t Trait) AtMax() bool { return t.Value >= t.Max }

// ClonePolicy selects what a cloned gene is built from.
type ClonePolicy uint8

const (
	// CloneFromFounder rebuilds offspring genes from the lineage's founder values.
	CloneFromFounder ClonePolicy = iota
	// CloneFromCurrent copies the parent's current, possibly mutated, values.
	CloneFromCurrent
)

// String returns the config name of the policy.
func (p ClonePolicy) String() string {
	switch p {
	case CloneFromFounder:
		return "founder"
	case CloneFromCurrent:
		return "current"
	default:
		return fmt.Sprintf("ClonePolicy(%d)", uint8(p))
	}
}

// ParseClonePolicy maps a config name to a policy.
func ParseClonePolicy(s string) (ClonePolicy, error) {
	switch s {
	case "", "founder":
		return CloneFromFounder, nil
	case "current":
		return CloneFromCurrent, nil
	default:
		return 0, fmt.Errorf("unknown clone policy %q", s)
	}
}

// Founder is the initial allocation a lineage starts from.
type Founder struct {
	PointFunds             int   `yaml:"point_funds"`
	SurvivalProbability    Trait `yaml:"survival_probability"`
	PredatorDeathThreshold Trait `yaml:"predator_death_threshold"`
	ReproduceThreshold     Trait `yaml:"reproduce_threshold"`
	MaxHealth              Trait `yaml:"max_health"`
	MaxAge                 Trait `yaml:"max_age"`
	TwinLikelihood         Trait `yaml:"twin_likelihood"`
}

// Trait indices in gene order.
const (
	TraitSurvival = iota
	TraitPredatorDeathThreshold
	TraitReproduceThreshold
	TraitMaxHealth
	TraitMaxAge
	TraitTwinLikelihood
)

// Names lists trait names in gene order.
var Names = [NumTraits]string{
	"survival_probability",
	"predator_death_threshold",
	"reproduce_threshold",
	"max_health",
	"max_age",
	"twin_likelihood",
}

func (f Founder) traits() [NumTraits]Trait {
	return [NumTraits]Trait{
		f.SurvivalProbability,
		f.PredatorDeathThreshold,
		f.ReproduceThreshold,
		f.MaxHealth,
		f.MaxAge,
		f.TwinLikelihood,
	}
}

// Validate checks that every trait is within bounds and the pool is not negative.
func (f Founder) Validate() error {
	if f.PointFunds < 0 {
		return fmt.Errorf("%w: point_funds %d is negative", ErrInvalidFounder, f.PointFunds)
	}
	for i, t := range f.traits() {
		if t.Max <= 0 {
			return fmt.Errorf("%w: %s max %d must be positive", ErrInvalidFounder, Names[i], t.Max)
		}
		if t.Value < 0 || t.Value > t.Max {
			return fmt.Errorf("%w: %s value %d outside [0, %d]", ErrInvalidFounder, Names[i], t.Value, t.Max)
		}
	}
	return nil
}

// Gene is an organism's heritable trait vector.
type Gene struct {
	SurvivalProbability    Trait
	PredatorDeathThreshold Trait
	ReproduceThreshold     Trait
	MaxHealth              Trait
	MaxAge                 Trait
	TwinLikelihood         Trait
	PointFunds             int

	founder *Founder
	policy  ClonePolicy
}

// NewGene builds a gene from a founder allocation.
func NewGene(f Founder, policy ClonePolicy) (*Gene, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	fc := f
	return fromFounder(&fc, policy), nil
}

// MustNewGene is like NewGene but panics on error.
func MustNewGene(f Founder, policy ClonePolicy) *Gene {
	g, err := NewGene(f, policy)
	if err != nil {
		panic(err)
	}
	return g
}

func fromFounder(f *Founder, policy ClonePolicy) *Gene {
	return &Gene{
		SurvivalProbability:    f.SurvivalProbability,
		PredatorDeathThreshold: f.PredatorDeathThreshold,
		ReproduceThreshold:     f.ReproduceThreshold,
		MaxHealth:              f.MaxHealth,
		MaxAge:                 f.MaxAge,
		TwinLikelihood:         f.TwinLikelihood,
		PointFunds:             f.PointFunds,
		founder:                f,
		policy:                 policy,
	}
}

// slot returns a pointer to the i-th trait in gene order.
func (g *Gene) slot(i int) *Trait {
	switch i {
	case TraitSurvival:
		return &g.SurvivalProbability
	case TraitPredatorDeathThreshold:
		return &g.PredatorDeathThreshold
	case TraitReproduceThreshold:
		return &g.ReproduceThreshold
	case TraitMaxHealth:
		return &g.MaxHealth
	case TraitMaxAge:
		return &g.MaxAge
	case TraitTwinLikelihood:
		return &g.TwinLikelihood
	}
	panic(fmt.Sprintf("traits: trait index %d out of range", i))
}

// Traits returns the six traits in gene order.
func (g *Gene) Traits() [NumTraits]Trait {
	return [NumTraits]Trait{
		g.SurvivalProbability,
		g.PredatorDeathThreshold,
		g.ReproduceThreshold,
		g.MaxHealth,
		g.MaxAge,
		g.TwinLikelihood,
	}
}

// Values returns the six trait values in gene order.
func (g *Gene) Values() [NumTraits]int {
	var v [NumTraits]int
	for i, t := range g.Traits() {
		v[i] = t.Value
	}
	return v
}

// Total returns the sum of all trait values plus the unspent pool.
func (g *Gene) Total() int {
	total := g.PointFunds
	for _, t := range g.Traits() {
		total += t.Value
	}
	return total
}

// FounderTotal returns the point budget the lineage started with.
func (g *Gene) FounderTotal() int {
	if g.founder == nil {
		return g.Total()
	}
	return fromFounder(g.founder, g.policy).Total()
}

// Mutate moves one point between a randomly chosen trait and the pool.
// A trait at Max always releases a point. A trait at zero draws one if the pool
// has any; otherwise it is left alone. A trait in between moves up or down on a
// fair coin; an upward move with an empty pool leaves the gene unchanged.
func (g *Gene) Mutate(rng *rand.Rand) *Gene {
	t := g.slot(rng.Intn(NumTraits))

	switch {
	case t.AtMax():
		t.Value--
		g.PointFunds++
	case t.Value == 0:
		if g.PointFunds > 0 {
			t.Value++
			g.PointFunds--
		}
	default:
		if rng.Intn(2) == 0 {
			if g.PointFunds > 0 {
				t.Value++
				g.PointFunds--
			}
		} else {
			t.Value--
			g.PointFunds++
		}
	}

	return g
}

// Clone returns an independent gene according to the clone policy.
func (g *Gene) Clone() *Gene {
	if g.policy == CloneFromFounder && g.founder != nil {
		return fromFounder(g.founder, g.policy)
	}
	c := *g
	return &c
}

// CloneInto writes a clone of g into dst, reusing dst's storage.
func (g *Gene) CloneInto(dst *Gene) {
	if g.policy == CloneFromFounder && g.founder != nil {
		*dst = *fromFounder(g.founder, g.policy)
		return
	}
	*dst = *g
}

// Validate reports the first trait outside its bounds or a budget that drifted
// from the founder's.
func (g *Gene) Validate() error {
	for i, t := range g.Traits() {
		if t.Value < 0 || t.Value > t.Max {
			return fmt.Errorf("%s value %d outside [0, %d]", Names[i], t.Value, t.Max)
		}
	}
	if g.PointFunds < 0 {
		return fmt.Errorf("point_funds %d is negative", g.PointFunds)
	}
	if want := g.FounderTotal(); g.Total() != want {
		return fmt.Errorf("point budget %d, want %d", g.Total(), want)
	}
	return nil
}
