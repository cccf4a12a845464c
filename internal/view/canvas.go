package view

import (
	"io"
	"math"

	"github.com/golang/geo/r2"
)

// Half-block characters; each terminal cell holds two vertical pixels.
const (
	blockFull      = '█'
	blockUpperHalf = '▀'
	blockLowerHalf = '▄'
)

// Canvas maps the simulation area onto a grid of half-block pixels. The
// area is scaled uniformly and centred, with world y pointing up.
type Canvas struct {
	cols, rows int
	pixels     []bool // [y*cols + x], 2*rows pixel rows

	area   r2.Rect
	scale  float64  // pixels per world unit
	offset r2.Point // pixel position of area.Lo() after centring
}

// NewCanvas creates a canvas of cols×rows terminal cells showing area.
func NewCanvas(cols, rows int, area r2.Rect) *Canvas {
	c := &Canvas{area: area}
	c.Resize(cols, rows)
	return c
}

// Resize adapts the canvas to a new terminal size. It is a no-op when the
// size is unchanged.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == c.cols && rows == c.rows && c.pixels != nil {
		return
	}
	c.cols, c.rows = cols, rows
	c.pixels = make([]bool, cols*rows*2)

	size := c.area.Size()
	pw, ph := float64(cols), float64(rows*2)
	c.scale = math.Min(pw/size.X, ph/size.Y)
	c.offset = r2.Point{
		X: (pw - size.X*c.scale) / 2,
		Y: (ph - size.Y*c.scale) / 2,
	}
}

// Cols returns the canvas width in terminal cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the canvas height in terminal cells.
func (c *Canvas) Rows() int { return c.rows }

// Clear resets all pixels.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// toPixel converts a world point to pixel coordinates.
func (c *Canvas) toPixel(p r2.Point) (x, y int) {
	lo, hi := c.area.Lo(), c.area.Hi()
	px := c.offset.X + (p.X-lo.X)*c.scale
	py := c.offset.Y + (hi.Y-p.Y)*c.scale
	return int(math.Floor(px)), int(math.Floor(py))
}

// Cell returns the 1-based terminal cell showing p, for text overlays.
func (c *Canvas) Cell(p r2.Point) (col, row int) {
	x, y := c.toPixel(p)
	return x + 1, y/2 + 1
}

func (c *Canvas) set(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows*2 {
		c.pixels[y*c.cols+x] = true
	}
}

// Pixel reports whether the pixel at (x, y) is set.
func (c *Canvas) Pixel(x, y int) bool {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows*2 {
		return false
	}
	return c.pixels[y*c.cols+x]
}

// Dot sets the pixel under p.
func (c *Canvas) Dot(p r2.Point) {
	c.set(c.toPixel(p))
}

// FillCircle sets every pixel whose centre lies within radius of center.
// Bodies smaller than a pixel still light one pixel.
func (c *Canvas) FillCircle(center r2.Point, radius float64) {
	cx, cy := c.toPixel(center)
	c.set(cx, cy)

	r := radius * c.scale
	ri := int(math.Ceil(r))
	fx := c.offset.X + (center.X-c.area.Lo().X)*c.scale
	fy := c.offset.Y + (c.area.Hi().Y-center.Y)*c.scale
	for y := cy - ri; y <= cy+ri; y++ {
		for x := cx - ri; x <= cx+ri; x++ {
			dx := float64(x) + 0.5 - fx
			dy := float64(y) + 0.5 - fy
			if dx*dx+dy*dy <= r*r {
				c.set(x, y)
			}
		}
	}
}

// Line draws a segment using Bresenham's algorithm.
func (c *Canvas) Line(a, b r2.Point) {
	x1, y1 := c.toPixel(a)
	x2, y2 := c.toPixel(b)

	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.set(x1, y1)
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

// Dotted marks every nth point of path.
func (c *Canvas) Dotted(path []r2.Point, every int) {
	every = max(every, 1)
	for i := 0; i < len(path); i += every {
		c.Dot(path[i])
	}
}

// Render writes the whole canvas starting at terminal row firstRow, one
// cursor move per row. Empty cells are written as spaces so the previous
// frame is overwritten.
func (c *Canvas) Render(w *ChunkWriter, firstRow int) {
	for row := 0; row < c.rows; row++ {
		w.MoveCursor(1, firstRow+row)
		top := row * 2 * c.cols
		bottom := top + c.cols
		for col := 0; col < c.cols; col++ {
			t, b := c.pixels[top+col], c.pixels[bottom+col]
			switch {
			case t && b:
				w.buf.WriteRune(blockFull)
			case t:
				w.buf.WriteRune(blockUpperHalf)
			case b:
				w.buf.WriteRune(blockLowerHalf)
			default:
				w.buf.WriteByte(' ')
			}
		}
	}
}

// WriteTo renders the canvas to an arbitrary writer.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	cw := NewChunkWriter(w)
	c.Render(cw, 1)
	n := int64(cw.buf.Len())
	return n, cw.Flush()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
