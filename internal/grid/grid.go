package grid

import "fmt"

// Grid is a dense width×height field of T in row-major order.
type Grid[T any] struct {
	width, height int
	cells         []T
}

// New creates a zero-filled grid. Dimensions must be positive; the engine
// validates context dimensions before any grid is built, so violating this
// is a programming error and panics.
func New[T any](width, height int) *Grid[T] {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", width, height))
	}
	return &Grid[T]{width: width, height: height, cells: make([]T, width*height)}
}

// Width returns the grid width.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid[T]) Height() int { return g.height }

// In reports whether p lies inside the grid bounds.
func (g *Grid[T]) In(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// At returns the value at p.
func (g *Grid[T]) At(p Point) T {
	return g.cells[p.Y*g.width+p.X]
}

// Set stores v at p.
func (g *Grid[T]) Set(p Point, v T) {
	g.cells[p.Y*g.width+p.X] = v
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Count returns the number of cells for which pred holds.
func (g *Grid[T]) Count(pred func(T) bool) int {
	n := 0
	for _, c := range g.cells {
		if pred(c) {
			n++
		}
	}
	return n
}

// Cells returns the backing slice in row-major order. Intended for bulk
// comparison and rendering; callers must not resize it.
func (g *Grid[T]) Cells() []T {
	return g.cells
}
