package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
)

// AutomataParams tunes CellularAutomata. Zero values take defaults.
type AutomataParams struct {
	FillPercent     int // chance each interior cell starts as floor (default 45)
	SmoothingPasses int // neighbor-rule passes (default 5)
	MinAreaSize     int // open regions smaller than this are filled back in (default 10)
}

func (p AutomataParams) withDefaults() AutomataParams {
	if p.FillPercent == 0 {
		p.FillPercent = 45
	}
	if p.SmoothingPasses == 0 {
		p.SmoothingPasses = 5
	}
	if p.MinAreaSize == 0 {
		p.MinAreaSize = 10
	}
	return p
}

// CellularAutomata produces cave-like open space: random fill followed by
// neighbor-majority smoothing passes, then publishes the surviving open
// regions as TagAreas. One stage per pass (the random fill counts as the
// first). Signals regeneration when no region survives the size cull.
type CellularAutomata struct {
	gen.BaseStep
	params AutomataParams
}

// NewCellularAutomata validates params and builds the step.
func NewCellularAutomata(params AutomataParams) (*CellularAutomata, error) {
	p := params.withDefaults()
	switch {
	case p.FillPercent < 1 || p.FillPercent > 99:
		return nil, &gen.StepConfigError{Step: "CellularAutomata", Reason: "FillPercent must be in [1, 99]"}
	case p.SmoothingPasses < 1:
		return nil, &gen.StepConfigError{Step: "CellularAutomata", Reason: "SmoothingPasses must be at least 1"}
	case p.MinAreaSize < 1:
		return nil, &gen.StepConfigError{Step: "CellularAutomata", Reason: "MinAreaSize must be at least 1"}
	}
	return &CellularAutomata{BaseStep: gen.NewBaseStep("CellularAutomata"), params: p}, nil
}

func (s *CellularAutomata) Perform(ctx *gen.Context) *gen.Stages {
	return gen.NewStages(func(yield func() bool) error {
		r := randomSource(ctx)
		walls := wallFloor(ctx)

		// Random fill, leaving the outer border solid.
		for y := 1; y < ctx.Height-1; y++ {
			for x := 1; x < ctx.Width-1; x++ {
				if r.Percent(s.params.FillPercent) {
					walls.Set(grid.Pt(x, y), true)
				}
			}
		}
		if !yield() {
			return nil
		}

		for pass := 0; pass < s.params.SmoothingPasses; pass++ {
			s.smooth(walls)
			if !yield() {
				return nil
			}
		}

		// Cull undersized regions and publish the survivors.
		areas := areaList(ctx, TagAreas)
		kept := 0
		for _, region := range grid.Regions(walls, true) {
			if region.Len() < s.params.MinAreaSize {
				for _, p := range region.Points() {
					walls.Set(p, false)
				}
				continue
			}
			areas.Add(region, s.Name())
			kept++
		}
		if kept == 0 {
			return gen.Regenerate("no open region of at least %d cells survived smoothing", s.params.MinAreaSize)
		}
		return nil
	})
}

// smooth applies the classic 4-5 rule: a cell becomes wall when five or more
// of its eight neighbors are wall, floor otherwise. The border stays wall.
func (s *CellularAutomata) smooth(walls *grid.Grid[bool]) {
	w, h := walls.Width(), walls.Height()
	next := grid.New[bool](w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p := grid.Pt(x, y)
			wallNeighbors := 0
			for _, n := range p.Neighbors() {
				if !walls.In(n) || !walls.At(n) {
					wallNeighbors++
				}
			}
			next.Set(p, wallNeighbors < 5)
		}
	}
	copy(walls.Cells(), next.Cells())
}
