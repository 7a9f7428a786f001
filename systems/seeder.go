package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/traits"
)

// Seeder places the initial population.
type Seeder struct {
	cfg     *config.Config
	rng     *rand.Rand
	founder *traits.Gene
	density *DensityField
}

// NewSeeder creates a seeder. The noise field, when the pattern asks for one,
// is seeded from rng so a run stays reproducible from its single seed.
func NewSeeder(cfg *config.Config, rng *rand.Rand) (*Seeder, error) {
	founder, err := traits.NewGene(cfg.Gene.Founder, cfg.Derived.ClonePolicy)
	if err != nil {
		return nil, fmt.Errorf("building founder gene: %w", err)
	}

	s := &Seeder{cfg: cfg, rng: rng, founder: founder}
	if cfg.Seed.Pattern == config.PatternNoise {
		s.density = NewDensityField(rng.Int63(), cfg.Grid.Width, cfg.Grid.Height, cfg.Seed.NoiseScale)
	}
	return s, nil
}

// Density returns the noise field modulating placement, or nil for the
// uniform pattern.
func (s *Seeder) Density() *DensityField { return s.density }

// Seed populates an empty grid. Each cell independently becomes prey with
// probability prey_density, otherwise predator with probability
// predator_density relative to what remains, otherwise stays empty. Fixed
// placements are applied afterwards and override random ones.
func (s *Seeder) Seed(g *Grid) {
	pop := s.cfg.Population

	// Conditional predator chance so the two densities are fractions of all cells
	predChance := 0.0
	if pop.PreyDensity < 1 {
		predChance = pop.PredatorDensity / (1 - pop.PreyDensity)
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			weight := 1.0
			if s.density != nil {
				weight = s.density.Weight(x, y)
			}

			r := s.rng.Float64()
			switch {
			case r < pop.PreyDensity*weight:
				s.Place(g, x, y, components.KindPrey)
			case s.rng.Float64() < predChance*weight:
				s.Place(g, x, y, components.KindPredator)
			}
		}
	}

	for _, p := range s.cfg.Seed.Placements {
		kind := components.KindPrey
		if p.Kind == "predator" {
			kind = components.KindPredator
		}
		s.Place(g, p.X, p.Y, kind)
	}
}

// Place puts a founder organism of the given kind at (x, y).
func (s *Seeder) Place(g *Grid, x, y int, kind components.Kind) {
	c := g.At(x, y)
	c.Kind = kind
	c.InheritGene(s.founder)
	c.Age = 0
	c.Stamp = 0
	if kind == components.KindPredator {
		c.Health = s.cfg.Health.PredatorStarting
	} else {
		c.Health = s.cfg.Health.PreyStarting
	}
}
