package grid

// Regions returns the cardinally connected regions of cells equal to value,
// in scan order of each region's first cell.
func Regions(g *Grid[bool], value bool) []*Area {
	seen := New[bool](g.Width(), g.Height())
	var out []*Area
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			start := Point{X: x, Y: y}
			if seen.At(start) || g.At(start) != value {
				continue
			}
			area := NewArea()
			queue := []Point{start}
			seen.Set(start, true)
			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				area.Add(p)
				for _, n := range p.Cardinals() {
					if g.In(n) && !seen.At(n) && g.At(n) == value {
						seen.Set(n, true)
						queue = append(queue, n)
					}
				}
			}
			out = append(out, area)
		}
	}
	return out
}
