package object

// Arena is the toroidal playfield. Its size may change between ticks.
type Arena struct {
	Width  float64
	Height float64
}

// Center returns the middle of the arena.
func (a Arena) Center() (float64, float64) {
	return a.Width / 2, a.Height / 2
}

// Wrap moves a body of the given radius that has fully left one edge so it
// re-enters from the opposite edge. Positions stay within
// [-radius, Width+radius] x [-radius, Height+radius].
func (a Arena) Wrap(x, y *float64, radius float64) {
	*x = wrapAxis(*x, a.Width, radius)
	*y = wrapAxis(*y, a.Height, radius)
}

func wrapAxis(v, size, radius float64) float64 {
	if size <= 0 {
		return v
	}
	switch {
	case v < -radius:
		return size + radius
	case v > size+radius:
		return -radius
	}
	return v
}
