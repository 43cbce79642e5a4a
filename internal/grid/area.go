package grid

// Area is a freeform set of points with insertion-ordered iteration and
// constant-time membership checks.
type Area struct {
	points []Point
	member map[Point]struct{}
}

// NewArea returns an area containing the given points, duplicates ignored.
func NewArea(points ...Point) *Area {
	a := &Area{member: make(map[Point]struct{}, len(points))}
	for _, p := range points {
		a.Add(p)
	}
	return a
}

// Add inserts p, reporting whether it was not already present.
func (a *Area) Add(p Point) bool {
	if _, ok := a.member[p]; ok {
		return false
	}
	a.member[p] = struct{}{}
	a.points = append(a.points, p)
	return true
}

// Remove deletes p, reporting whether it was present. Iteration order of the
// remaining points is preserved.
func (a *Area) Remove(p Point) bool {
	if _, ok := a.member[p]; !ok {
		return false
	}
	delete(a.member, p)
	for i, q := range a.points {
		if q == p {
			a.points = append(a.points[:i], a.points[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether p is in the area.
func (a *Area) Contains(p Point) bool {
	_, ok := a.member[p]
	return ok
}

// Points returns the area's points in insertion order. Callers must not
// mutate the returned slice.
func (a *Area) Points() []Point {
	return a.points
}

// Len reports the number of points.
func (a *Area) Len() int {
	return len(a.points)
}
