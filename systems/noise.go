package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// DensityField modulates seeding density with coherent noise so organisms
// start out in patches instead of salt-and-pepper.
type DensityField struct {
	noise opensimplex.Noise
	scale float64
	// Torus circumference in noise space, so the field wraps seamlessly
	w, h float64
}

// NewDensityField creates a noise field for a w x h grid.
// scale is the noise frequency per cell.
func NewDensityField(seed int64, w, h int, scale float64) *DensityField {
	return &DensityField{
		noise: opensimplex.NewNormalized(seed),
		scale: scale,
		w:     float64(w),
		h:     float64(h),
	}
}

// Weight returns a multiplier in [0, 2] for cell (x, y). The field averages to
// roughly 1, which keeps the expected density near the configured value.
func (f *DensityField) Weight(x, y int) float64 {
	// Blend with the wrapped copies on each axis so opposite edges agree
	fx := float64(x) / f.w
	fy := float64(y) / f.h

	a := f.noise.Eval2(float64(x)*f.scale, float64(y)*f.scale)
	b := f.noise.Eval2((float64(x)-f.w)*f.scale, float64(y)*f.scale)
	c := f.noise.Eval2(float64(x)*f.scale, (float64(y)-f.h)*f.scale)
	d := f.noise.Eval2((float64(x)-f.w)*f.scale, (float64(y)-f.h)*f.scale)

	top := a*(1-fx) + b*fx
	bottom := c*(1-fx) + d*fx
	n := top*(1-fy) + bottom*fy

	return 2 * n
}
