package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/rng"
)

// MazeParams tunes Maze. Zero values take defaults.
type MazeParams struct {
	// CrawlerBatch is how many carved cells one stage covers (default 25).
	CrawlerBatch int
}

func (p MazeParams) withDefaults() MazeParams {
	if p.CrawlerBatch == 0 {
		p.CrawlerBatch = 25
	}
	return p
}

// Maze carves corridors through the remaining wall space with backtracking
// crawlers over an odd-aligned lattice, leaving rooms untouched. Each
// corridor network is appended to TagTunnels; one stage per CrawlerBatch
// carved cells.
type Maze struct {
	gen.BaseStep
	params MazeParams
}

// NewMaze validates params and builds the step.
func NewMaze(params MazeParams) (*Maze, error) {
	p := params.withDefaults()
	if p.CrawlerBatch < 1 {
		return nil, &gen.StepConfigError{Step: "Maze", Reason: "CrawlerBatch must be at least 1"}
	}
	return &Maze{BaseStep: gen.NewBaseStep("Maze"), params: p}, nil
}

func (s *Maze) Perform(ctx *gen.Context) *gen.Stages {
	return gen.NewStages(func(yield func() bool) error {
		r := randomSource(ctx)
		walls := wallFloor(ctx)
		tunnels := areaList(ctx, TagTunnels)

		carvedInBatch := 0
		carve := func(area *grid.Area, p grid.Point) bool {
			walls.Set(p, true)
			area.Add(p)
			carvedInBatch++
			if carvedInBatch >= s.params.CrawlerBatch {
				carvedInBatch = 0
				return yield()
			}
			return true
		}

		// Lattice cells sit at odd coordinates; corridors connect them
		// through the even cell in between.
		for y := 1; y < ctx.Height-1; y += 2 {
			for x := 1; x < ctx.Width-1; x += 2 {
				start := grid.Pt(x, y)
				if walls.At(start) {
					continue
				}
				area := grid.NewArea()
				if !carve(area, start) {
					return nil
				}
				stack := []grid.Point{start}
				for len(stack) > 0 {
					cur := stack[len(stack)-1]
					next, mid, ok := s.pickNeighbor(walls, r, cur)
					if !ok {
						stack = stack[:len(stack)-1]
						continue
					}
					if !carve(area, mid) || !carve(area, next) {
						return nil
					}
					stack = append(stack, next)
				}
				if area.Len() > 0 {
					tunnels.Add(area, s.Name())
				}
			}
		}
		return nil
	})
}

// pickNeighbor returns a random uncarved lattice neighbor of cur two cells
// away, plus the wall cell between them.
func (s *Maze) pickNeighbor(walls *grid.Grid[bool], r *rng.RNG, cur grid.Point) (next, mid grid.Point, ok bool) {
	dirs := [4]grid.Point{{X: 0, Y: -2}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: -2, Y: 0}}
	r.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		n := cur.Add(d)
		if n.X < 1 || n.Y < 1 || n.X >= walls.Width()-1 || n.Y >= walls.Height()-1 {
			continue
		}
		if walls.At(n) {
			continue
		}
		return n, grid.Pt(cur.X+d.X/2, cur.Y+d.Y/2), true
	}
	return grid.Point{}, grid.Point{}, false
}
