// Package spatial implements the uniform hash grid used to bound
// near-neighbor queries during force computation.
//
// The grid is rebuilt from scratch every frame: positions move every tick,
// so rebuilding (linear in node count) is simpler to reason about than
// incremental maintenance. Cells are keyed by a packed (cellX, cellY)
// integer so the plane needs no fixed bounds.
package spatial

// Grid buckets node slot indices by cell coordinate.
type Grid struct {
	cellSize float32
	rings    int
	cells    map[uint64][]int32
}

// NewGrid creates a grid with the given cell size. rings is the number of
// cell rings searched around a node's own cell: 1 yields the 3x3
// neighborhood, which pairs with a repulsion cutoff of one cell width.
func NewGrid(cellSize float32, rings int) *Grid {
	if rings < 1 {
		rings = 1
	}
	return &Grid{
		cellSize: cellSize,
		rings:    rings,
		cells:    make(map[uint64][]int32),
	}
}

// CellSize returns the configured cell width.
func (g *Grid) CellSize() float32 {
	return g.cellSize
}

// Reset empties all cells, keeping allocated bucket capacity for reuse
// across frames.
func (g *Grid) Reset() {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
}

// Insert adds a slot index at the given position.
func (g *Grid) Insert(slot int32, x, y float32) {
	key := packKey(g.cellCoord(x), g.cellCoord(y))
	g.cells[key] = append(g.cells[key], slot)
}

// NeighborsInto appends every slot bucketed in the (2*rings+1)^2 cells
// around the given position to dst and returns the extended slice. The
// result includes the querying node itself; callers filter as needed.
// Reuse dst across calls to avoid allocation.
func (g *Grid) NeighborsInto(dst []int32, x, y float32) []int32 {
	cx := g.cellCoord(x)
	cy := g.cellCoord(y)
	r := int32(g.rings)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if bucket, ok := g.cells[packKey(cx+dx, cy+dy)]; ok {
				dst = append(dst, bucket...)
			}
		}
	}
	return dst
}

// cellCoord maps a coordinate to its cell index, rounding toward negative
// infinity so positions left of the origin land in distinct cells.
func (g *Grid) cellCoord(v float32) int32 {
	c := int32(v / g.cellSize)
	if v < 0 && float32(c)*g.cellSize != v {
		c--
	}
	return c
}

// packKey folds two signed cell coordinates into one map key.
func packKey(cx, cy int32) uint64 {
	return uint64(uint32(cx))<<32 | uint64(uint32(cy))
}
