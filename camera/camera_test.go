package camera

import (
	"math"
	"testing"
)

// 100x50 grid at 8 pixels per cell: an 800x400 viewport.
func newTestCamera() *Camera {
	return New(100, 50, 8)
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	// Should be centered on the grid
	if cam.X != 50 || cam.Y != 25 {
		t.Errorf("expected camera at (50, 25), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if cam.ViewportW != 800 || cam.ViewportH != 400 {
		t.Errorf("expected viewport 800x400, got %fx%f", cam.ViewportW, cam.ViewportH)
	}
}

func TestZoomOneMatchesGridLayout(t *testing.T) {
	cam := newTestCamera()

	for _, x := range []int{0, 1, 49, 50, 99} {
		for _, y := range []int{0, 24, 25, 49} {
			sx, sy := cam.WorldToScreen(float32(x), float32(y))
			if sx != float32(x*8) || sy != float32(y*8) {
				t.Errorf("cell (%d, %d) drawn at (%f, %f), want (%d, %d)", x, y, sx, sy, x*8, y*8)
			}
		}
	}
}

func TestScreenToCell(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name   string
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside a cell", 13, 21, 1, 2, true},
		{"last pixel", 799, 399, 99, 49, true},
		{"right of viewport", 800, 0, 0, 0, false},
		{"below viewport", 0, 400, 0, 0, false},
		{"negative", -1, 10, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.ScreenToCell(tt.sx, tt.sy)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (x != tt.x || y != tt.y) {
				t.Errorf("got (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(2.5)
	cam.Pan(123, -45)

	testCases := []struct{ sx, sy float32 }{
		{400, 200}, // center
		{100, 100},
		{700, 350},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := newTestCamera()
	cam.X = 2 // Near left edge

	// A cell at the right edge is closer going left around the torus
	sx, _ := cam.WorldToScreen(98, 25)
	if sx >= 400 {
		t.Errorf("expected cell on left of screen, got x=%f", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := newTestCamera()
	cam.X = 1

	// Two cells left at zoom 1 wraps to the right edge
	cam.Pan(-16, 0)

	if math.Abs(float64(cam.X-99)) > 0.001 {
		t.Errorf("expected X to wrap to 99, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(0.5) // Below min
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom clamped to 1.0, got %f", cam.Zoom)
	}

	cam.SetZoom(20.0) // Above max
	if cam.Zoom != 8.0 {
		t.Errorf("expected zoom clamped to 8.0, got %f", cam.Zoom)
	}

	cam.SetZoom(2)
	cam.ZoomBy(1.5)
	if cam.Zoom != 3 || cam.CellSize() != 24 {
		t.Errorf("expected zoom 3 and 24px cells, got %f and %f", cam.Zoom, cam.CellSize())
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(4) // 32px cells, 25x12.5 cells visible around (50, 25)

	tests := []struct {
		x, y int
		want bool
	}{
		{50, 25, true},
		{37, 25, true},  // partly off the left edge
		{36, 25, false}, // wholly off the left edge
		{62, 25, true},
		{63, 25, false},
		{50, 18, true},
		{50, 17, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		if got := cam.IsVisible(tt.x, tt.y); got != tt.want {
			t.Errorf("IsVisible(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.X = 5
	cam.Y = 5
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 50 || cam.Y != 25 {
		t.Errorf("expected position (50, 25), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
