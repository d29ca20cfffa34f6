package physics

import "math"

// SpatialGrid is a uniform grid over the x/z plane for broad-phase collision
// detection. Objects are inserted by position and index, then nearby objects
// can be queried via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighborhood. Positions outside the covered area are clamped to
// the border cells, so nothing is ever dropped.
type SpatialGrid struct {
	minX, minZ  float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering x in [minX, maxX] and z in [minZ, maxZ].
func NewSpatialGrid(minX, minZ, maxX, maxZ, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil((maxX - minX) / cellSize))
	rows := int(math.Ceil((maxZ - minZ) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		minX:        minX,
		minZ:        minZ,
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

// Insert adds an item (identified by index) at the given world position.
func (g *SpatialGrid) Insert(p Vec3, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around the given world position. Cells past the border are skipped.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p Vec3, fn func(index int) bool) {
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

// posToCell converts a world position to grid cell coordinates, clamping to
// the border cells.
func (g *SpatialGrid) posToCell(p Vec3) (col, row int) {
	col = int(math.Floor((p.X - g.minX) * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor((p.Z - g.minZ) * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
