package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/traits"
)

// ErrInvariant is wrapped by every internal consistency failure.
var ErrInvariant = errors.New("invariant violation")

// Options configures a Simulation beyond the config file.
type Options struct {
	// Observer receives birth, death, kill and move events. May be nil.
	Observer Observer
	// Debug checks every invariant after each tick.
	Debug bool
}

// Simulation owns the grid and advances it one tick at a time. Cells are
// visited in row-major order (y outer, x inner), the same order every tick.
type Simulation struct {
	grid   *Grid
	cells  *CellSystem
	seeder *Seeder
	tick   uint64
	debug  bool
}

// NewSimulation validates cfg, builds the grid and seeds the population.
// Every random draw of the run comes from rng.
func NewSimulation(cfg *config.Config, rng *rand.Rand, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewGrid(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	seeder, err := NewSeeder(cfg, rng)
	if err != nil {
		return nil, err
	}

	rules := Rules{
		PreyStartingHealth:     cfg.Health.PreyStarting,
		PredatorStartingHealth: cfg.Health.PredatorStarting,
		BaseDeathChance:        cfg.Mortality.BaseChance,
		FrailDeathChance:       cfg.Mortality.FrailChance,
		Movement:               cfg.Movement.Enabled,
	}

	s := &Simulation{
		grid:   grid,
		cells:  NewCellSystem(grid, rng, rules, opts.Observer),
		seeder: seeder,
		debug:  opts.Debug,
	}
	seeder.Seed(grid)

	return s, nil
}

// AdvanceTick runs one full pass over the grid. It returns false, without
// touching any state, once the grid is extinct.
func (s *Simulation) AdvanceTick() bool {
	if s.IsExtinct() {
		return false
	}

	s.tick++
	s.cells.SetTick(s.tick)
	for i := 0; i < s.grid.Len(); i++ {
		s.cells.Update(i)
	}
	return true
}

// Step advances one tick and, in debug mode, verifies every invariant.
func (s *Simulation) Step() (bool, error) {
	advanced := s.AdvanceTick()
	if advanced && s.debug {
		if err := s.CheckInvariants(); err != nil {
			return advanced, fmt.Errorf("tick %d: %w", s.tick, err)
		}
	}
	return advanced, nil
}

// IsExtinct reports whether every cell is empty.
func (s *Simulation) IsExtinct() bool {
	for i := 0; i < s.grid.Len(); i++ {
		if s.grid.Cell(i).Alive() {
			return false
		}
	}
	return true
}

// Tick returns the number of ticks advanced so far.
func (s *Simulation) Tick() uint64 { return s.tick }

// Grid returns the simulation grid for read access.
func (s *Simulation) Grid() *Grid { return s.grid }

// Seeder returns the seeder used to build the initial population.
func (s *Simulation) Seeder() *Seeder { return s.seeder }

// Debug reports whether invariants are checked after every Step.
func (s *Simulation) Debug() bool { return s.debug }

// Census is a population snapshot.
type Census struct {
	Tick      uint64
	Prey      int
	Predators int
	Empty     int

	PreyHealth     []float64
	PredatorHealth []float64

	// Trait values across all living organisms, in gene order
	Traits     [traits.NumTraits][]float64
	PointFunds []float64
}

// Living returns the number of organisms.
func (c *Census) Living() int { return c.Prey + c.Predators }

// Census counts organisms and samples per-organism values for statistics.
func (s *Simulation) Census() Census {
	c := Census{Tick: s.tick}

	s.grid.Each(func(_ int, cell *components.Cell) {
		switch cell.Kind {
		case components.KindEmpty:
			c.Empty++
			return
		case components.KindPrey:
			c.Prey++
			c.PreyHealth = append(c.PreyHealth, float64(cell.Health))
		case components.KindPredator:
			c.Predators++
			c.PredatorHealth = append(c.PredatorHealth, float64(cell.Health))
		}

		for k, t := range cell.Gene.Traits() {
			c.Traits[k] = append(c.Traits[k], float64(t.Value))
		}
		c.PointFunds = append(c.PointFunds, float64(cell.Gene.PointFunds))
	})

	return c
}

// CheckInvariants verifies grid topology and every living organism's gene.
func (s *Simulation) CheckInvariants() error {
	g := s.grid
	if g.Len() != g.Width()*g.Height() {
		return fmt.Errorf("%w: %d cells for a %dx%d grid", ErrInvariant, g.Len(), g.Width(), g.Height())
	}

	for i := 0; i < g.Len(); i++ {
		c := g.Cell(i)
		if g.Index(c.X, c.Y) != i {
			return fmt.Errorf("%w: cell %d reports position (%d, %d)", ErrInvariant, i, c.X, c.Y)
		}

		nb := g.Neighbors(i)
		for a := 0; a < NumNeighbors; a++ {
			if int(nb[a]) == i {
				return fmt.Errorf("%w: cell (%d, %d) is its own neighbor", ErrInvariant, c.X, c.Y)
			}
			for b := a + 1; b < NumNeighbors; b++ {
				if nb[a] == nb[b] {
					return fmt.Errorf("%w: cell (%d, %d) has duplicate neighbor %d", ErrInvariant, c.X, c.Y, nb[a])
				}
			}
		}

		if !c.Alive() {
			continue
		}
		if c.Gene == nil {
			return fmt.Errorf("%w: %s at (%d, %d) has no gene", ErrInvariant, c.Kind, c.X, c.Y)
		}
		if err := c.Gene.Validate(); err != nil {
			return fmt.Errorf("%w: %s at (%d, %d): %w", ErrInvariant, c.Kind, c.X, c.Y, err)
		}
	}

	return nil
}
