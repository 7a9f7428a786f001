package components

import "github.com/pthm-cable/gridsoup/traits"

// Kind is the occupant type of a grid cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindPrey
	KindPredator
)

// NumKinds is the number of cell kinds, including Empty.
const NumKinds = 3

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindPrey:
		return "prey"
	case KindPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// IsOrganism reports whether the kind is a living occupant.
func (k Kind) IsOrganism() bool { return k == KindPrey || k == KindPredator }

// DeathCause records why an organism left the grid.
type DeathCause uint8

const (
	DeathStarvation DeathCause = iota // predator ran out of health
	DeathAge                          // exceeded its max_age trait
	DeathChance                       // stochastic per-tick mortality
	DeathEaten                        // prey consumed by a predator

	NumDeathCauses = 4
)

// String returns the lowercase name of the cause.
func (c DeathCause) String() string {
	switch c {
	case DeathStarvation:
		return "starvation"
	case DeathAge:
		return "age"
	case DeathChance:
		return "chance"
	case DeathEaten:
		return "eaten"
	default:
		return "unknown"
	}
}

// Cell is one grid site. Cells are created once and repurposed in place;
// neighbor adjacency lives in the grid, not here.
type Cell struct {
	Kind   Kind
	X, Y   int
	Health int
	Age    int

	// Gene is kept when the cell empties so the storage can be reused.
	Gene *traits.Gene

	// Stamp is the tick in which the current occupant last acted or was placed.
	Stamp uint64
}

// Alive reports whether the cell holds an organism.
func (c *Cell) Alive() bool { return c.Kind.IsOrganism() }

// Clear empties the cell, keeping its gene storage.
func (c *Cell) Clear() {
	c.Kind = KindEmpty
	c.Health = 0
	c.Age = 0
}

// InheritGene gives the cell an independent clone of src, reusing the
// cell's dormant gene storage when it has one.
func (c *Cell) InheritGene(src *traits.Gene) {
	if c.Gene == nil {
		c.Gene = src.Clone()
		return
	}
	src.CloneInto(c.Gene)
}
