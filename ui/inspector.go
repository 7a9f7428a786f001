package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/components"
)

// Inspector renders the panel for a selected cell.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	cell     []components.FieldDescriptor
	gene     []components.FieldDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		cell:     components.CellFieldDescriptors(),
		gene:     components.GeneFieldDescriptors(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for a cell.
func (ins *Inspector) Draw(c *components.Cell) {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	rows := len(ins.cell) + 2
	if c.Alive() && c.Gene != nil {
		rows += len(ins.gene) + 1
	}
	r.DrawPanel(ins.x, ins.y, ins.width, int32(rows)*(r.Theme.LineHeight+2)+padding*2)

	x := ins.x + padding
	y := ins.y + padding

	y = r.DrawSwatch(x, y, kindColor(c.Kind), fmt.Sprintf("Cell (%d, %d)", c.X, c.Y))

	for _, f := range ins.cell {
		y = r.DrawLabelValue(x, y, f.Label, cellField(c, f))
	}

	if !c.Alive() || c.Gene == nil {
		return
	}

	y += 4
	y = r.DrawSectionHeader(x, y, "Gene")
	traitValues := c.Gene.Traits()
	for i, f := range ins.gene {
		if f.IsBar && i < len(traitValues) {
			t := traitValues[i]
			y = r.DrawTraitBar(x, y, f.Label, t.Value, t.Max, contentWidth)
			continue
		}
		y = r.DrawLabelValue(x, y, f.Label, fmt.Sprintf(f.Format, c.Gene.PointFunds))
	}
}

func cellField(c *components.Cell, f components.FieldDescriptor) string {
	switch f.ID {
	case "kind":
		return fmt.Sprintf(f.Format, c.Kind)
	case "health":
		return fmt.Sprintf(f.Format, c.Health)
	case "age":
		return fmt.Sprintf(f.Format, c.Age)
	default:
		return "?"
	}
}

func kindColor(k components.Kind) rl.Color {
	switch k {
	case components.KindPrey:
		return PreyColor
	case components.KindPredator:
		return PredatorColor
	default:
		return EmptyColor
	}
}

// CellColor returns the grid color of a cell. Organisms brighten with age.
func CellColor(c *components.Cell) rl.Color {
	if !c.Alive() {
		return EmptyColor
	}
	shade := components.AgeShade(c.Age)
	if c.Kind == components.KindPredator {
		return rl.Color{R: shade, G: 0, B: 0, A: 255}
	}
	return rl.Color{R: 0, G: shade, B: 0, A: 255}
}
