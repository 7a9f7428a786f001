package systems

import (
	"fmt"

	"github.com/pthm-cable/gridsoup/components"
)

// NumNeighbors is the size of a Moore neighborhood.
const NumNeighbors = 8

// neighborOffsets lists Moore offsets with dy outer, dx inner. The order only
// matters as the base for the randomized neighbor scan.
var neighborOffsets = [NumNeighbors][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Grid is a fixed-size toroidal arena of cells. It owns every cell; adjacency
// is a table of arena indices built once at construction.
type Grid struct {
	width, height int
	cells         []components.Cell
	neighbors     [][NumNeighbors]int32
}

// NewGrid allocates a w x h grid of empty cells and wires the neighbor table.
// Both dimensions must be at least 3 so that every neighbor is distinct.
func NewGrid(w, h int) (*Grid, error) {
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("grid %dx%d: both dimensions must be at least 3", w, h)
	}

	g := &Grid{
		width:     w,
		height:    h,
		cells:     make([]components.Cell, w*h),
		neighbors: make([][NumNeighbors]int32, w*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := g.Index(x, y)
			g.cells[i] = components.Cell{Kind: components.KindEmpty, X: x, Y: y}

			for k, off := range neighborOffsets {
				nx := wrap(x+off[0], w)
				ny := wrap(y+off[1], h)
				g.neighbors[i][k] = int32(g.Index(nx, ny))
			}
		}
	}

	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Index returns the arena index of (x, y). Coordinates must be in range.
func (g *Grid) Index(x, y int) int { return y*g.width + x }

// At returns the cell at (x, y), wrapping out-of-range coordinates.
func (g *Grid) At(x, y int) *components.Cell {
	return &g.cells[g.Index(wrap(x, g.width), wrap(y, g.height))]
}

// Cell returns the cell at arena index i.
func (g *Grid) Cell(i int) *components.Cell { return &g.cells[i] }

// Neighbors returns the arena indices adjacent to cell i.
func (g *Grid) Neighbors(i int) [NumNeighbors]int32 { return g.neighbors[i] }

// Neighbor returns the k-th neighbor of cell i.
func (g *Grid) Neighbor(i, k int) *components.Cell {
	return &g.cells[g.neighbors[i][k]]
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(i int, c *components.Cell)) {
	for i := range g.cells {
		fn(i, &g.cells[i])
	}
}

// Count returns the number of cells of the given kind.
func (g *Grid) Count(kind components.Kind) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Kind == kind {
			n++
		}
	}
	return n
}
