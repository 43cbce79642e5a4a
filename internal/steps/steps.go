// Package steps provides the concrete terrain generation steps: room
// placement, cellular automata, maze carving, area connection, dead end
// trimming, and the translation steps that adapt one step's output into the
// component another step expects.
//
// All steps share a small set of conventional component tags so they can be
// freely recombined into algorithms.
package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/rng"
)

// Component tags shared between producing and consuming steps.
const (
	// TagWallFloor is the walkability grid (*grid.Grid[bool], true = floor).
	TagWallFloor = "WallFloor"
	// TagRooms is the placed room list (*gen.ItemList[grid.Rect]).
	TagRooms = "Rooms"
	// TagTunnels is the carved corridor list (*gen.ItemList[*grid.Area]).
	TagTunnels = "Tunnels"
	// TagAreas is the generic walkable area list (*gen.ItemList[*grid.Area]).
	TagAreas = "Areas"
	// TagDoors is reserved for door placement steps.
	TagDoors = "Doors"
	// TagRNG is the random source (*rng.RNG).
	TagRNG = "RNG"
)

// randomSource returns the context's RNG component, seeding a wall-clock one
// on first use when the caller did not pre-seed.
func randomSource(ctx *gen.Context) *rng.RNG {
	return gen.FirstOrNew(ctx.Store, TagRNG, rng.Random)
}

// wallFloor returns the walkability grid component, creating an all-wall
// grid on first use.
func wallFloor(ctx *gen.Context) *grid.Grid[bool] {
	return gen.FirstOrNew(ctx.Store, TagWallFloor, func() *grid.Grid[bool] {
		return grid.New[bool](ctx.Width, ctx.Height)
	})
}

// areaList returns the item list component under tag, creating an empty one
// on first use.
func areaList(ctx *gen.Context, tag string) *gen.ItemList[*grid.Area] {
	return gen.FirstOrNew(ctx.Store, tag, gen.NewItemList[*grid.Area])
}
