package physics

import (
	"math"
	"sort"
	"testing"
)

func TestCirclesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		x2     float64
		r1, r2 float64
		want   bool
	}{
		{"separate", 10, 2, 3, false},
		{"touching", 5, 2, 3, false},
		{"overlapping", 4.9, 2, 3, true},
		{"concentric", 0, 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CirclesOverlap(0, 0, tt.r1, tt.x2, 0, tt.r2); got != tt.want {
				t.Errorf("CirclesOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrappedDelta(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		size float64
		want float64
	}{
		{"inside", 10, 20, 100, 10},
		{"across right edge", 95, 5, 100, 10},
		{"across left edge", 5, 95, 100, -10},
		{"from the margin", -6, 154, 160, 0},
		{"no wrap", 5, 95, 0, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrappedDelta(tt.a, tt.b, tt.size); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WrappedDelta(%g, %g, %g) = %g, want %g", tt.a, tt.b, tt.size, got, tt.want)
			}
		})
	}
}

func TestCirclesOverlapWrapped(t *testing.T) {
	// An asteroid hanging off the left edge reaches the right edge.
	if !CirclesOverlapWrapped(-6, 50, 8, 156, 50, 2.5, 160, 100) {
		t.Error("circles touching across the edge do not overlap")
	}
	if CirclesOverlap(-6, 50, 8, 156, 50, 2.5) {
		t.Error("plain overlap unexpectedly sees across the edge")
	}
	if CirclesOverlapWrapped(10, 50, 2, 80, 50, 2, 160, 100) {
		t.Error("distant circles overlap")
	}
}

func TestClampMagnitude(t *testing.T) {
	x, y := ClampMagnitude(30, 40, 10)
	if got := Magnitude(x, y); math.Abs(got-10) > 1e-9 {
		t.Errorf("clamped magnitude = %f, want 10", got)
	}
	x, y = ClampMagnitude(3, 4, 10)
	if x != 3 || y != 4 {
		t.Errorf("vector under the limit changed to (%f, %f)", x, y)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1, -2, 0) {
		t.Error("finite values reported as non-finite")
	}
	if IsFinite(1, math.NaN()) {
		t.Error("NaN reported as finite")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("-Inf reported as finite")
	}
}

func TestSpatialGridQueryAround(t *testing.T) {
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(5, 5, 0)   // corner cell
	g.Insert(95, 95, 1) // opposite corner, neighbour through wrap
	g.Insert(50, 50, 2) // far away

	var got []int
	g.QueryAround(5, 5, func(i int) bool {
		got = append(got, i)
		return false
	})
	sort.Ints(got)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("QueryAround corner = %v, want [0 1]", got)
	}
}

func TestSpatialGridSmallWorldVisitsOnce(t *testing.T) {
	g := NewSpatialGrid(15, 15, 10) // 2x2 cells: the 3x3 walk revisits cells
	g.Insert(1, 1, 7)

	count := 0
	g.QueryAround(12, 12, func(int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("item visited %d times, want 1", count)
	}
}

func TestSpatialGridFindsPairsAcrossEdge(t *testing.T) {
	// 155 wide: cells are stretched to 155/15, so the last cell is full size
	// and the wrap neighbour of column 0 is the true right edge.
	g := NewSpatialGrid(155, 100, 10)
	g.Insert(149.9, 50, 1)
	g.Insert(-7, 50, 2) // wrap margin

	var got []int
	g.QueryAround(0.1, 50, func(i int) bool {
		got = append(got, i)
		return false
	})
	sort.Ints(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("QueryAround left edge = %v, want [1 2]", got)
	}
}

func TestSpatialGridClearAndResize(t *testing.T) {
	g := NewSpatialGrid(50, 50, 10)
	g.Insert(25, 25, 3)
	g.Clear()

	found := false
	g.QueryAround(25, 25, func(int) bool {
		found = true
		return true
	})
	if found {
		t.Error("item survived Clear")
	}

	g.Resize(200, 100)
	g.Insert(190, 90, 4)
	g.QueryAround(190, 90, func(i int) bool {
		found = i == 4
		return true
	})
	if !found {
		t.Error("item not found after Resize")
	}
}
