package physics

import (
	"math"

	"github.com/golang/geo/r2"
)

// SpatialGrid is a uniform grid for broad-phase collision detection over a
// bounded area. Objects are inserted by position and index, then nearby
// objects can be queried via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// objects so that all potential pairs are found within the neighborhood.
// Positions outside the area are clamped to the border cells; clamping only
// shrinks distances, so no pair is missed.
type SpatialGrid struct {
	origin      r2.Point
	invCellSize float64
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between ticks (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering area with the given cell size.
func NewSpatialGrid(area r2.Rect, cellSize float64) *SpatialGrid {
	size := area.Size()
	cols := int(math.Ceil(size.X / cellSize))
	rows := int(math.Ceil(size.Y / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		origin:      area.Lo(),
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p r2.Point, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around p. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p r2.Point, fn func(index int) bool) {
	col, row := g.posToCell(p)

	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		rowOffset := r * g.cols
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts a position to grid cell coordinates, clamped to the grid.
func (g *SpatialGrid) posToCell(p r2.Point) (col, row int) {
	col = clampIndex((p.X-g.origin.X)*g.invCellSize, g.cols)
	row = clampIndex((p.Y-g.origin.Y)*g.invCellSize, g.rows)
	return col, row
}

func clampIndex(v float64, n int) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
