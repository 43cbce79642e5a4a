package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/rng"
)

// ClosestAreaConnection joins disjoint walkable area groups until a single
// group remains, carving an L-shaped tunnel between the closest pair of
// points each time. Requires TagAreas; the carved tunnels are appended to
// TagTunnels and to the area group they join. One stage per connection.
type ClosestAreaConnection struct {
	gen.BaseStep
}

// NewClosestAreaConnection builds the step.
func NewClosestAreaConnection() *ClosestAreaConnection {
	return &ClosestAreaConnection{
		BaseStep: gen.NewBaseStep("ClosestAreaConnection",
			gen.Require[*gen.ItemList[*grid.Area]](TagAreas)),
	}
}

func (s *ClosestAreaConnection) Perform(ctx *gen.Context) *gen.Stages {
	return gen.NewStages(func(yield func() bool) error {
		r := randomSource(ctx)
		walls := wallFloor(ctx)
		areas, _ := gen.First[*gen.ItemList[*grid.Area]](ctx.Store, TagAreas)
		tunnels := areaList(ctx, TagTunnels)

		// Each area starts as its own group; groups merge as they connect.
		var groups []*grid.Area
		for _, a := range areas.Items() {
			merged := grid.NewArea(a.Points()...)
			groups = append(groups, merged)
		}

		for len(groups) > 1 {
			ai, bi, from, to := s.closestPair(groups)
			tunnel := s.carveTunnel(walls, r, from, to)
			if tunnel.Len() > 0 {
				tunnels.Add(tunnel, s.Name())
			}

			// Merge group bi (and the tunnel) into group ai.
			for _, p := range groups[bi].Points() {
				groups[ai].Add(p)
			}
			for _, p := range tunnel.Points() {
				groups[ai].Add(p)
			}
			groups = append(groups[:bi], groups[bi+1:]...)

			if !yield() {
				return nil
			}
		}
		return nil
	})
}

// closestPair finds the two groups with the smallest point-to-point
// Manhattan distance, returning their indices (ai < bi) and the closest
// points in each.
func (s *ClosestAreaConnection) closestPair(groups []*grid.Area) (ai, bi int, from, to grid.Point) {
	best := -1
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			for _, p := range groups[i].Points() {
				for _, q := range groups[j].Points() {
					d := p.Manhattan(q)
					if best < 0 || d < best {
						best, ai, bi, from, to = d, i, j, p, q
					}
				}
			}
		}
	}
	return ai, bi, from, to
}

// carveTunnel draws an L-shaped corridor between from and to, randomly
// choosing whether the horizontal or vertical leg comes first. Only cells
// that were wall become part of the tunnel area.
func (s *ClosestAreaConnection) carveTunnel(walls *grid.Grid[bool], r *rng.RNG, from, to grid.Point) *grid.Area {
	tunnel := grid.NewArea()
	dig := func(p grid.Point) {
		if walls.In(p) && !walls.At(p) {
			walls.Set(p, true)
			tunnel.Add(p)
		}
	}

	corner := grid.Pt(to.X, from.Y)
	if r.Percent(50) {
		corner = grid.Pt(from.X, to.Y)
	}
	walkLine(from, corner, dig)
	walkLine(corner, to, dig)
	return tunnel
}

// walkLine visits every point on the axis-aligned segments from a to b.
func walkLine(a, b grid.Point, visit func(grid.Point)) {
	step := func(v, target int) int {
		switch {
		case v < target:
			return v + 1
		case v > target:
			return v - 1
		default:
			return v
		}
	}
	p := a
	for {
		visit(p)
		if p == b {
			return
		}
		p = grid.Pt(step(p.X, b.X), step(p.Y, b.Y))
	}
}
