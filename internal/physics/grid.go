package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection in a
// wrapping world. Items are inserted by position and index; a query visits
// the 3x3 cell neighbourhood around a point.
//
// Cell size must be >= the largest collision distance between any two items
// so that every overlapping pair shares a neighbourhood. Cells are stretched
// to tile the world exactly, so neighbourhoods stay valid across the wrap.
type SpatialGrid struct {
	cellSize float64
	cellW    float64
	cellH    float64
	width    float64
	height   float64
	cols     int
	rows     int
	cells    [][]int
	visit    [9]int // scratch for de-duplicated neighbour cells
}

// NewSpatialGrid creates a grid covering a worldW x worldH area.
func NewSpatialGrid(worldW, worldH, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{cellSize: cellSize}
	g.Resize(worldW, worldH)
	return g
}

// Resize rebuilds the cell layout for new world dimensions. It is a no-op
// when the dimensions are unchanged.
func (g *SpatialGrid) Resize(worldW, worldH float64) {
	if worldW == g.width && worldH == g.height && g.cells != nil {
		return
	}
	g.width = worldW
	g.height = worldH
	g.cols = max(1, int(worldW/g.cellSize))
	g.rows = max(1, int(worldH/g.cellSize))
	g.cellW = max(worldW/float64(g.cols), g.cellSize)
	g.cellH = max(worldH/float64(g.rows), g.cellSize)
	g.cells = make([][]int, g.cols*g.rows)
}

// Clear removes all items while keeping cell capacity for reuse.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds the item identified by index at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.cellOf(x, y)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], index)
}

// QueryAround calls fn for every item in the 3x3 neighbourhood around (x, y),
// wrapping at the world edges. Each cell is visited at most once even when
// the grid is narrower than three cells. Returning true from fn stops the query.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.cellOf(x, y)

	n := 0
	for dr := -1; dr <= 1; dr++ {
		r := wrapIndex(row+dr, g.rows)
		for dc := -1; dc <= 1; dc++ {
			c := wrapIndex(col+dc, g.cols)
			cell := r*g.cols + c
			if !seen(g.visit[:n], cell) {
				g.visit[n] = cell
				n++
			}
		}
	}

	for _, cell := range g.visit[:n] {
		for _, idx := range g.cells[cell] {
			if fn(idx) {
				return
			}
		}
	}
}

// cellOf converts a position to cell coordinates. Positions in the wrap
// margin just outside the world land in the cell on the opposite edge.
func (g *SpatialGrid) cellOf(x, y float64) (col, row int) {
	col = wrapIndex(int(math.Floor(x/g.cellW)), g.cols)
	row = wrapIndex(int(math.Floor(y/g.cellH)), g.rows)
	return col, row
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func seen(cells []int, cell int) bool {
	for _, c := range cells {
		if c == cell {
			return true
		}
	}
	return false
}
