// Package camera provides a 2D camera for panning and zooming over the
// toroidal grid.
package camera

import "math"

// Camera controls the viewport into the grid. World coordinates are in
// cells; cell (x, y) covers [x, x+1) x [y, y+1).
type Camera struct {
	// Position is the camera center in cell coordinates
	X, Y float32

	// Zoom level (1.0 = whole grid fits the viewport)
	Zoom float32

	// Scale is pixels per cell at zoom 1
	Scale float32

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	// Grid dimensions in cells, for toroidal wrapping
	GridW, GridH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on a gridW x gridH grid drawn at scale
// pixels per cell, so that at zoom 1 cell (x, y) lands at (x*scale, y*scale).
func New(gridW, gridH int, scale float32) *Camera {
	w, h := float32(gridW), float32(gridH)
	return &Camera{
		X:         w / 2,
		Y:         h / 2,
		Zoom:      1.0,
		Scale:     scale,
		ViewportW: w * scale,
		ViewportH: h * scale,
		GridW:     w,
		GridH:     h,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// CellSize returns the on-screen edge of one cell in pixels.
func (c *Camera) CellSize() float32 {
	return c.Scale * c.Zoom
}

// WorldToScreen converts cell coordinates to screen coordinates, taking the
// shortest way around the torus from the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.GridW)
	dy := toroidalDelta(wy, c.Y, c.GridH)

	sx = c.ViewportW/2 + dx*c.CellSize()
	sy = c.ViewportH/2 + dy*c.CellSize()
	return sx, sy
}

// ScreenToWorld converts screen coordinates to cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.CellSize()
	dy := (sy - c.ViewportH/2) / c.CellSize()

	wx = mod(c.X+dx, c.GridW)
	wy = mod(c.Y+dy, c.GridH)
	return wx, wy
}

// ScreenToCell returns the grid position drawn at a screen point, and false
// when the point lies outside the viewport.
func (c *Camera) ScreenToCell(sx, sy float32) (x, y int, ok bool) {
	if sx < 0 || sy < 0 || sx >= c.ViewportW || sy >= c.ViewportH {
		return 0, 0, false
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	x = min(int(wx), int(c.GridW)-1)
	y = min(int(wy), int(c.GridH)-1)
	return x, y, true
}

// IsVisible reports whether cell (x, y) overlaps the viewport.
func (c *Camera) IsVisible(x, y int) bool {
	sx, sy := c.WorldToScreen(float32(x), float32(y))
	size := c.CellSize()
	return sx+size > 0 && sy+size > 0 && sx < c.ViewportW && sy < c.ViewportH
}

// Pan moves the camera by the given delta in screen pixels, wrapping around
// the grid edges.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.CellSize(), c.GridW)
	c.Y = mod(c.Y+dy/c.CellSize(), c.GridH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.GridW / 2
	c.Y = c.GridH / 2
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d >= size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
