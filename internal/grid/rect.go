package grid

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// MaxX returns the largest x coordinate inside the rectangle.
func (r Rect) MaxX() int { return r.X + r.Width - 1 }

// MaxY returns the largest y coordinate inside the rectangle.
func (r Rect) MaxY() int { return r.Y + r.Height - 1 }

// Center returns the rectangle's center point, rounded down.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Intersects reports whether r and o share any point.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Expand grows the rectangle by n cells on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Points returns every point inside the rectangle in row-major order.
func (r Rect) Points() []Point {
	out := make([]Point, 0, r.Width*r.Height)
	for y := r.Y; y <= r.MaxY(); y++ {
		for x := r.X; x <= r.MaxX(); x++ {
			out = append(out, Point{X: x, Y: y})
		}
	}
	return out
}
