package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/rng"
)

// RoomsParams tunes RandomRooms. Zero values take defaults.
type RoomsParams struct {
	MinRooms int // minimum rooms that must be placed (default 4)
	MaxRooms int // upper bound on attempted rooms (default 10)
	MinSize  int // smallest room side (default 3)
	MaxSize  int // largest room side (default 7)
	// PlacementAttempts is the per-room positioning budget before a room is
	// abandoned (default 30).
	PlacementAttempts int
}

func (p RoomsParams) withDefaults() RoomsParams {
	if p.MinRooms == 0 {
		p.MinRooms = 4
	}
	if p.MaxRooms == 0 {
		p.MaxRooms = 10
	}
	if p.MinSize == 0 {
		p.MinSize = 3
	}
	if p.MaxSize == 0 {
		p.MaxSize = 7
	}
	if p.PlacementAttempts == 0 {
		p.PlacementAttempts = 30
	}
	return p
}

// RandomRooms places non-overlapping rectangular rooms and carves them into
// the walkability grid. It produces TagRooms and updates TagWallFloor,
// yielding one stage per placed room. When fewer than MinRooms fit, the step
// signals regeneration.
type RandomRooms struct {
	gen.BaseStep
	params RoomsParams
}

// NewRandomRooms validates params and builds the step.
func NewRandomRooms(params RoomsParams) (*RandomRooms, error) {
	p := params.withDefaults()
	switch {
	case p.MinRooms < 1:
		return nil, &gen.StepConfigError{Step: "RandomRooms", Reason: "MinRooms must be at least 1"}
	case p.MaxRooms < p.MinRooms:
		return nil, &gen.StepConfigError{Step: "RandomRooms", Reason: "MaxRooms must be >= MinRooms"}
	case p.MinSize < 3:
		return nil, &gen.StepConfigError{Step: "RandomRooms", Reason: "MinSize must be at least 3"}
	case p.MaxSize < p.MinSize:
		return nil, &gen.StepConfigError{Step: "RandomRooms", Reason: "MaxSize must be >= MinSize"}
	case p.PlacementAttempts < 1:
		return nil, &gen.StepConfigError{Step: "RandomRooms", Reason: "PlacementAttempts must be at least 1"}
	}
	return &RandomRooms{BaseStep: gen.NewBaseStep("RandomRooms"), params: p}, nil
}

func (s *RandomRooms) Perform(ctx *gen.Context) *gen.Stages {
	return gen.NewStages(func(yield func() bool) error {
		r := randomSource(ctx)
		walls := wallFloor(ctx)
		rooms := gen.FirstOrNew(ctx.Store, TagRooms, gen.NewItemList[grid.Rect])

		target := r.Range(s.params.MinRooms, s.params.MaxRooms)
		placed := 0
		for i := 0; i < target; i++ {
			room, ok := s.place(ctx, r, rooms.Items())
			if !ok {
				continue
			}
			for _, p := range room.Points() {
				walls.Set(p, true)
			}
			rooms.Add(room, s.Name())
			placed++
			if !yield() {
				return nil
			}
		}
		if placed < s.params.MinRooms {
			return gen.Regenerate("placed %d of %d required rooms", placed, s.params.MinRooms)
		}
		return nil
	})
}

// place finds a position for one room, keeping a one-cell margin to the map
// edge and to every existing room.
func (s *RandomRooms) place(ctx *gen.Context, r *rng.RNG, existing []grid.Rect) (grid.Rect, bool) {
	for attempt := 0; attempt < s.params.PlacementAttempts; attempt++ {
		w := r.Range(s.params.MinSize, s.params.MaxSize)
		h := r.Range(s.params.MinSize, s.params.MaxSize)
		if w > ctx.Width-2 || h > ctx.Height-2 {
			continue
		}
		room := grid.Rect{
			X:      r.Range(1, ctx.Width-w-1),
			Y:      r.Range(1, ctx.Height-h-1),
			Width:  w,
			Height: h,
		}
		if s.fits(room, existing) {
			return room, true
		}
	}
	return grid.Rect{}, false
}

func (s *RandomRooms) fits(room grid.Rect, existing []grid.Rect) bool {
	expanded := room.Expand(1)
	for _, other := range existing {
		if expanded.Intersects(other) {
			return false
		}
	}
	return true
}
