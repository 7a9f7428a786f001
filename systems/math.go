package systems

// clampInt clamps an int value between lo and hi.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrap maps a coordinate onto [0, n), the toroidal modulo (Go's % can
// return negative).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
