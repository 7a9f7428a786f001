package systems

import (
	"math/rand"

	"github.com/pthm-cable/gridsoup/components"
)

// Observer receives lifecycle events from the cell system.
type Observer interface {
	RecordBirth(kind components.Kind)
	RecordDeath(kind components.Kind, cause components.DeathCause)
	RecordKill()
	RecordMove(kind components.Kind)
}

type nopObserver struct{}

func (nopObserver) RecordBirth(components.Kind)                        {}
func (nopObserver) RecordDeath(components.Kind, components.DeathCause) {}
func (nopObserver) RecordKill()                                        {}
func (nopObserver) RecordMove(components.Kind)                         {}

// Rules holds the fixed ecology constants.
type Rules struct {
	PreyStartingHealth     int
	PredatorStartingHealth int
	BaseDeathChance        float64 // per tick, survival_probability > 0
	FrailDeathChance       float64 // per tick, survival_probability == 0
	Movement               bool
}

// wanderTargets maps each organism kind to the neighbor kind it may step into
// when it has nothing better to do.
var wanderTargets = map[components.Kind]components.Kind{
	components.KindPrey:     components.KindEmpty,
	components.KindPredator: components.KindEmpty,
}

// CellSystem runs the per-cell state machine over a shared grid. Writes are
// made in place and are visible to cells visited later in the same tick.
type CellSystem struct {
	grid     *Grid
	rng      *rand.Rand
	rules    Rules
	observer Observer
	tick     uint64
}

// NewCellSystem creates a cell system. A nil observer discards events.
func NewCellSystem(grid *Grid, rng *rand.Rand, rules Rules, observer Observer) *CellSystem {
	if observer == nil {
		observer = nopObserver{}
	}
	return &CellSystem{
		grid:     grid,
		rng:      rng,
		rules:    rules,
		observer: observer,
	}
}

// SetTick sets the tick that Update stamps onto organisms that act or are born.
func (s *CellSystem) SetTick(tick uint64) { s.tick = tick }

// Update advances the organism in cell i by one tick. Empty cells and
// organisms that already acted or were born this tick are skipped.
func (s *CellSystem) Update(i int) {
	c := s.grid.Cell(i)
	if !c.Alive() || c.Stamp == s.tick {
		return
	}
	c.Stamp = s.tick

	switch c.Kind {
	case components.KindPrey:
		s.updatePrey(i)
	case components.KindPredator:
		s.updatePredator(i)
	}
}

func (s *CellSystem) updatePredator(i int) {
	c := s.grid.Cell(i)

	// Starving predators die before acting
	if c.Health <= 1 {
		s.die(i, components.DeathStarvation)
		return
	}

	j := s.findNeighbor(i, components.KindPrey)
	if s.grid.Cell(j).Kind == components.KindPrey {
		twin := c.Gene.TwinLikelihood.Fraction()

		s.observer.RecordDeath(components.KindPrey, components.DeathEaten)
		s.observer.RecordKill()
		s.reproduce(i, j)

		// Second offspring next to the eaten prey
		if s.rng.Float64() < twin {
			if k := s.findNeighbor(j, components.KindEmpty); s.grid.Cell(k).Kind == components.KindEmpty {
				s.reproduce(i, k)
			}
		}
	} else if s.rules.Movement && s.grid.Cell(j).Kind == wanderTargets[c.Kind] {
		s.move(i, j)
		i, c = j, s.grid.Cell(j)
	}

	c.Health--

	if s.checkMortality(i) {
		return
	}
	c.Age++
}

func (s *CellSystem) updatePrey(i int) {
	c := s.grid.Cell(i)

	bred := false
	if c.Health >= c.Gene.ReproduceThreshold.Value {
		if j := s.findNeighbor(i, components.KindEmpty); s.grid.Cell(j).Kind == components.KindEmpty {
			twin := c.Gene.TwinLikelihood.Fraction()
			s.reproduce(i, j)

			if s.rng.Float64() < twin {
				if k := s.findNeighbor(i, components.KindEmpty); s.grid.Cell(k).Kind == components.KindEmpty {
					s.reproduce(i, k)
				}
			}

			// Cost of reproduction
			c.Health = 1
			bred = true
		}
	}

	if !bred {
		c.Health = clampInt(c.Health+1, 0, c.Gene.MaxHealth.Value)

		if s.rules.Movement {
			if j := s.findNeighbor(i, wanderTargets[c.Kind]); s.grid.Cell(j).Kind == wanderTargets[c.Kind] {
				s.move(i, j)
				i, c = j, s.grid.Cell(j)
			}
		}
	}

	if s.checkMortality(i) {
		return
	}
	if !bred {
		c.Age++
	}
}

// findNeighbor returns the arena index of a neighbor of cell i with the given
// kind. The scan starts at a random slot so no direction is favored. When no
// neighbor matches, a uniformly random neighbor is returned instead; callers
// must check its kind.
func (s *CellSystem) findNeighbor(i int, kind components.Kind) int {
	nb := s.grid.Neighbors(i)
	off := s.rng.Intn(NumNeighbors)

	for k := 0; k < NumNeighbors; k++ {
		j := int(nb[(k+off)%NumNeighbors])
		if s.grid.Cell(j).Kind == kind {
			return j
		}
	}

	return int(nb[s.rng.Intn(NumNeighbors)])
}

// reproduce places a clone of the organism in cell src into cell dst. The
// offspring starts at age 0 with the parent's current health. The parent's
// gene mutates and its age and health reset.
func (s *CellSystem) reproduce(src, dst int) {
	p := s.grid.Cell(src)
	t := s.grid.Cell(dst)

	t.Kind = p.Kind
	t.InheritGene(p.Gene)
	t.Age = 0
	t.Health = p.Health
	t.Stamp = s.tick

	p.Gene.Mutate(s.rng)
	p.Age = 0
	p.Health = s.startingHealth(p.Kind)

	s.observer.RecordBirth(p.Kind)
}

// move relocates the organism in cell src to cell dst and empties src. The
// gene moves with the organism unchanged; the two cells swap gene storage.
func (s *CellSystem) move(src, dst int) {
	p := s.grid.Cell(src)
	t := s.grid.Cell(dst)

	t.Kind = p.Kind
	t.Gene, p.Gene = p.Gene, t.Gene
	t.Age = p.Age
	t.Health = p.Health
	t.Stamp = s.tick

	p.Clear()

	s.observer.RecordMove(t.Kind)
}

// checkMortality kills the organism in cell i by chance or old age and reports
// whether it died.
func (s *CellSystem) checkMortality(i int) bool {
	c := s.grid.Cell(i)

	chance := s.rules.BaseDeathChance
	if c.Gene.SurvivalProbability.Value == 0 {
		chance = s.rules.FrailDeathChance
	}

	if s.rng.Float64() < chance {
		s.die(i, components.DeathChance)
		return true
	}
	if c.Age > c.Gene.MaxAge.Value {
		s.die(i, components.DeathAge)
		return true
	}
	return false
}

func (s *CellSystem) die(i int, cause components.DeathCause) {
	c := s.grid.Cell(i)
	s.observer.RecordDeath(c.Kind, cause)
	c.Clear()
}

func (s *CellSystem) startingHealth(kind components.Kind) int {
	if kind == components.KindPredator {
		return s.rules.PredatorStartingHealth
	}
	return s.rules.PreyStartingHealth
}
