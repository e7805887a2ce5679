// Package physics provides collision detection and vector utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap reports whether two circles overlap. Touching circles
// (distance exactly equal to the radius sum) do not overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// WrappedDelta returns the shortest signed offset from a to b on an axis
// that repeats every size units. A non-positive size disables wrapping.
func WrappedDelta(a, b, size float64) float64 {
	d := b - a
	if size <= 0 {
		return d
	}
	d = math.Mod(d, size)
	switch {
	case d > size/2:
		d -= size
	case d < -size/2:
		d += size
	}
	return d
}

// WrappedDistanceSquared is DistanceSquared on a torus of the given size.
func WrappedDistanceSquared(x1, y1, x2, y2, width, height float64) float64 {
	dx := WrappedDelta(x1, x2, width)
	dy := WrappedDelta(y1, y2, height)
	return dx*dx + dy*dy
}

// CirclesOverlapWrapped is CirclesOverlap on a torus of the given size, so a
// circle straddling an edge also overlaps what sits on the opposite edge.
func CirclesOverlapWrapped(x1, y1, r1, x2, y2, r2, width, height float64) bool {
	minDist := r1 + r2
	return WrappedDistanceSquared(x1, y1, x2, y2, width, height) < minDist*minDist
}

// minMagnitude is the length below which a vector is treated as zero.
const minMagnitude = 1e-9

// Magnitude returns the length of the vector (x, y).
func Magnitude(x, y float64) float64 {
	return math.Hypot(x, y)
}

// Heading returns the angle of the vector (x, y), or fallbackAngle for a
// zero-length vector.
func Heading(x, y, fallbackAngle float64) float64 {
	if Magnitude(x, y) < minMagnitude {
		return fallbackAngle
	}
	return math.Atan2(y, x)
}

// ClampMagnitude scales (x, y) down so its length does not exceed limit.
func ClampMagnitude(x, y, limit float64) (float64, float64) {
	m := Magnitude(x, y)
	if m <= limit || m < minMagnitude {
		return x, y
	}
	scale := limit / m
	return x * scale, y * scale
}

// NormalizeAngle maps an angle into [-π, π].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
