package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Color is a palette index. The zero value is an unset pixel.
type Color uint8

const (
	None Color = iota
	White
	Gray
	Red
	Yellow
	Green
	Cyan
	Blue
	Magenta
	colorCount
)

// fgCodes and bgCodes are the SGR parameters for each palette entry.
var (
	fgCodes = [colorCount]string{"39", "97", "90", "91", "93", "92", "96", "94", "95"}
	bgCodes = [colorCount]string{"49", "107", "100", "101", "103", "102", "106", "104", "105"}
)

// Point is a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Canvas is a frame buffer with 2x vertical resolution using half-block
// characters. Logical coordinates are scaled to sub-pixels. Render only emits
// cells that changed since the previous frame.
type Canvas struct {
	termWidth  int
	termHeight int
	subHeight  int     // termHeight * 2
	pixels     []Color // [y*termWidth + x]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	offsetCol int // 0-based columns skipped when centring
	offsetRow int

	prev  []uint16 // Cell keys emitted last frame
	dirty []bool   // Cells to re-emit next frame regardless of content
	fresh bool     // Next Render emits every cell

	scratch    []byte
	polygonBuf []Point
	crossBuf   []float64
}

// NewCanvas creates a canvas of termWidth x termHeight cells mapping the
// logical area logicalWidth x logicalHeight onto it.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize changes the terminal area. Buffers are reallocated only when the
// size actually changes.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subHeight = termHeight * 2
		c.pixels = make([]Color, c.subHeight*termWidth)
		c.prev = make([]uint16, termHeight*termWidth)
		c.dirty = make([]bool, termHeight*termWidth)
		c.fresh = true
	}
	c.rescale()
}

// SetLogicalSize changes the logical area mapped onto the terminal.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.rescale()
}

func (c *Canvas) rescale() {
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subHeight) / c.logicalHeight
	}
}

// SetOffset sets the 0-based terminal offset of the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fresh = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear resets all pixels. The previous frame is kept for diffing.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.fresh = true
}

// MarkTextDirty marks n cells starting at the 1-based canvas position
// (col, row) for re-emission next frame, so overlaid text gets erased.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	row--
	col--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col, 0); x < min(col+n, c.termWidth); x++ {
		c.dirty[row*c.termWidth+x] = true
	}
}

func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// Plot sets the pixel at logical (x, y).
func (c *Canvas) Plot(x, y float64, color Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), color)
}

// Line draws a line between logical points using Bresenham's algorithm.
func (c *Canvas) Line(p1, p2 Point, color Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, color)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Polygon draws a closed outline, optionally filled.
func (c *Canvas) Polygon(points []Point, color Color, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points, color)
	}
	for i := range points {
		c.Line(points[i], points[(i+1)%len(points)], color)
	}
}

// fill runs a scanline fill in sub-pixel space.
func (c *Canvas) fill(points []Point, color Color) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = min(minY, p.Y*c.scaleY)
		maxY = max(maxY, p.Y*c.scaleY)
	}

	n := len(points)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scan := float64(y) + 0.5
		crossings := c.crossBuf[:0]
		for i := range n {
			x1, y1 := points[i].X*c.scaleX, points[i].Y*c.scaleY
			x2, y2 := points[(i+1)%n].X*c.scaleX, points[(i+1)%n].Y*c.scaleY
			if (y1 <= scan && y2 > scan) || (y2 <= scan && y1 > scan) {
				crossings = append(crossings, x1+(scan-y1)/(y2-y1)*(x2-x1))
			}
		}
		c.crossBuf = crossings
		slices.Sort(crossings)

		for i := 0; i+1 < len(crossings); i += 2 {
			for x := int(math.Ceil(crossings[i])); x <= int(math.Floor(crossings[i+1])); x++ {
				c.setPixel(x, y, color)
			}
		}
	}
}

// BorrowPoints returns a reusable slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

// Render writes the cells that changed since the last frame to w.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.scratch[:0]
	current := Color(255)

	for row := range c.termHeight {
		for col := range c.termWidth {
			i := row*c.termWidth + col
			top := c.pixels[row*2*c.termWidth+col]
			bottom := c.pixels[(row*2+1)*c.termWidth+col]
			key := uint16(top) | uint16(bottom)<<8

			if !c.fresh && !c.dirty[i] && c.prev[i] == key {
				continue
			}
			c.prev[i] = key
			c.dirty[i] = false
			if c.fresh && key == 0 {
				continue // the screen was just cleared
			}

			buf = append(buf, "\033["...)
			buf = strconv.AppendInt(buf, int64(row+1+c.offsetRow), 10)
			buf = append(buf, ';')
			buf = strconv.AppendInt(buf, int64(col+1+c.offsetCol), 10)
			buf = append(buf, 'H')
			buf, current = appendCell(buf, top, bottom, current)
		}
	}
	if current != 255 {
		buf = append(buf, "\033[0m"...)
	}
	c.fresh = false
	c.scratch = buf

	_, err := w.Write(buf)
	return err
}

// appendCell encodes one half-block cell, emitting SGR codes only when the
// colour pair changes.
func appendCell(buf []byte, top, bottom, current Color) ([]byte, Color) {
	var ch string
	fg, bg := top, None
	switch {
	case top == None && bottom == None:
		ch = " "
		fg = None
	case top == bottom:
		ch = "█"
	case bottom == None:
		ch = "▀"
	case top == None:
		ch = "▄"
		fg = bottom
	default:
		ch = "▀"
		bg = bottom
	}

	pair := fg | bg<<4
	if pair != current {
		buf = append(buf, "\033["...)
		buf = append(buf, fgCodes[fg]...)
		buf = append(buf, ';')
		buf = append(buf, bgCodes[bg]...)
		buf = append(buf, 'm')
		current = pair
	}
	return append(buf, ch...), current
}

// RenderBorder draws a box around the canvas when it is centred inside a
// larger terminal.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return nil
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	cw := NewChunkWriter(w, 0, 0)
	if hasV {
		bar := strings.Repeat("─", c.termWidth)
		if hasH {
			cw.WriteAt(left, top, "┌"+bar+"┐")
			cw.WriteAt(left, bottom, "└"+bar+"┘")
		} else {
			cw.WriteAt(c.offsetCol+1, top, bar)
			cw.WriteAt(c.offsetCol+1, bottom, bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}
	return cw.Flush()
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the canvas width in columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas height in rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalToTerminal converts logical coordinates to a 1-based canvas cell.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
