package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
)

// TrimParams tunes DeadEndTrim. Zero values take defaults.
type TrimParams struct {
	// MaxPasses bounds how many trimming passes run (default 5).
	MaxPasses int
	// KeepChance is the percent chance a dead end survives a pass untouched,
	// leaving some character in the maze (default 20).
	KeepChance int
}

func (p TrimParams) withDefaults() TrimParams {
	if p.MaxPasses == 0 {
		p.MaxPasses = 5
	}
	if p.KeepChance == 0 {
		p.KeepChance = 20
	}
	return p
}

// DeadEndTrim walks the tunnel areas and fills in dead-end cells, one pass
// per stage, stopping early when a pass removes nothing. Requires
// TagWallFloor and TagTunnels.
type DeadEndTrim struct {
	gen.BaseStep
	params TrimParams
}

// NewDeadEndTrim validates params and builds the step.
func NewDeadEndTrim(params TrimParams) (*DeadEndTrim, error) {
	p := params.withDefaults()
	switch {
	case p.MaxPasses < 1:
		return nil, &gen.StepConfigError{Step: "DeadEndTrim", Reason: "MaxPasses must be at least 1"}
	case p.KeepChance < 0 || p.KeepChance > 100:
		return nil, &gen.StepConfigError{Step: "DeadEndTrim", Reason: "KeepChance must be in [0, 100]"}
	}
	return &DeadEndTrim{
		BaseStep: gen.NewBaseStep("DeadEndTrim",
			gen.Require[*grid.Grid[bool]](TagWallFloor),
			gen.Require[*gen.ItemList[*grid.Area]](TagTunnels)),
		params: p,
	}, nil
}

func (s *DeadEndTrim) Perform(ctx *gen.Context) *gen.Stages {
	return gen.NewStages(func(yield func() bool) error {
		r := randomSource(ctx)
		walls, _ := gen.First[*grid.Grid[bool]](ctx.Store, TagWallFloor)
		tunnels, _ := gen.First[*gen.ItemList[*grid.Area]](ctx.Store, TagTunnels)

		for pass := 0; pass < s.params.MaxPasses; pass++ {
			trimmed := 0
			for _, tunnel := range tunnels.Items() {
				for _, p := range s.deadEnds(walls, tunnel) {
					if r.Percent(s.params.KeepChance) {
						continue
					}
					walls.Set(p, false)
					tunnel.Remove(p)
					trimmed++
				}
			}
			if !yield() {
				return nil
			}
			if trimmed == 0 {
				break
			}
		}
		return nil
	})
}

// deadEnds collects the tunnel cells with at most one walkable cardinal
// neighbor. Collected up front so a pass judges every cell against the same
// snapshot.
func (s *DeadEndTrim) deadEnds(walls *grid.Grid[bool], tunnel *grid.Area) []grid.Point {
	var ends []grid.Point
	for _, p := range tunnel.Points() {
		open := 0
		for _, n := range p.Cardinals() {
			if walls.In(n) && walls.At(n) {
				open++
			}
		}
		if open <= 1 {
			ends = append(ends, p)
		}
	}
	return ends
}
