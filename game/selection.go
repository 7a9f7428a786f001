package game

// cellAt maps a screen position to the arena index of the cell drawn there.
// Positions in the HUD strip or outside the grid report false.
func (g *Game) cellAt(px, py float32) (int, bool) {
	x, y, ok := g.camera.ScreenToCell(px, py)
	if !ok {
		return 0, false
	}
	return g.sim.Grid().Index(x, y), true
}
