package steps

import (
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
)

// RectsToAreas converts a rectangle item list into an area item list so that
// area-consuming steps can work with room output. Source attribution is
// carried over item by item. Runs in a single stage.
type RectsToAreas struct {
	gen.BaseStep
	fromTag      string
	toTag        string
	removeSource bool
}

// NewRectsToAreas builds the translation step. When removeSource is set the
// rectangle list is removed from the context after conversion.
func NewRectsToAreas(fromTag, toTag string, removeSource bool) (*RectsToAreas, error) {
	if fromTag == toTag {
		return nil, &gen.StepConfigError{Step: "RectsToAreas", Reason: "source and destination tags must differ"}
	}
	return &RectsToAreas{
		BaseStep: gen.NewBaseStep("RectsToAreas",
			gen.Require[*gen.ItemList[grid.Rect]](fromTag)),
		fromTag:      fromTag,
		toTag:        toTag,
		removeSource: removeSource,
	}, nil
}

func (s *RectsToAreas) Perform(ctx *gen.Context) *gen.Stages {
	return gen.OneStage(func() error {
		rects, _ := gen.First[*gen.ItemList[grid.Rect]](ctx.Store, s.fromTag)
		areas := areaList(ctx, s.toTag)
		for i, rect := range rects.Items() {
			areas.Add(grid.NewArea(rect.Points()...), rects.SourceOf(i))
		}
		if s.removeSource {
			ctx.Remove(rects)
		}
		return nil
	})
}

// AppendAreaLists merges one area item list into another, preserving source
// attribution. Runs in a single stage.
type AppendAreaLists struct {
	gen.BaseStep
	fromTag      string
	toTag        string
	removeSource bool
}

// NewAppendAreaLists builds the merge step. When removeSource is set the
// source list is removed from the context after merging.
func NewAppendAreaLists(fromTag, toTag string, removeSource bool) (*AppendAreaLists, error) {
	if fromTag == toTag {
		return nil, &gen.StepConfigError{Step: "AppendAreaLists", Reason: "source and destination tags must differ"}
	}
	return &AppendAreaLists{
		BaseStep: gen.NewBaseStep("AppendAreaLists",
			gen.Require[*gen.ItemList[*grid.Area]](fromTag)),
		fromTag:      fromTag,
		toTag:        toTag,
		removeSource: removeSource,
	}, nil
}

func (s *AppendAreaLists) Perform(ctx *gen.Context) *gen.Stages {
	return gen.OneStage(func() error {
		from, _ := gen.First[*gen.ItemList[*grid.Area]](ctx.Store, s.fromTag)
		to := areaList(ctx, s.toTag)
		for i, area := range from.Items() {
			to.Add(area, from.SourceOf(i))
		}
		if s.removeSource {
			ctx.Remove(from)
		}
		return nil
	})
}

// RemoveDuplicatePoints rewrites the areas under modifiedTag so that no point
// appears in more than one area across both lists; areas under unmodifiedTag
// win every conflict and are left untouched. Runs in a single stage.
type RemoveDuplicatePoints struct {
	gen.BaseStep
	unmodifiedTag string
	modifiedTag   string
}

// NewRemoveDuplicatePoints builds the dedup step.
func NewRemoveDuplicatePoints(unmodifiedTag, modifiedTag string) (*RemoveDuplicatePoints, error) {
	if unmodifiedTag == modifiedTag {
		return nil, &gen.StepConfigError{Step: "RemoveDuplicatePoints", Reason: "unmodified and modified tags must differ"}
	}
	return &RemoveDuplicatePoints{
		BaseStep: gen.NewBaseStep("RemoveDuplicatePoints",
			gen.Require[*gen.ItemList[*grid.Area]](unmodifiedTag),
			gen.Require[*gen.ItemList[*grid.Area]](modifiedTag)),
		unmodifiedTag: unmodifiedTag,
		modifiedTag:   modifiedTag,
	}, nil
}

func (s *RemoveDuplicatePoints) Perform(ctx *gen.Context) *gen.Stages {
	return gen.OneStage(func() error {
		unmodified, _ := gen.First[*gen.ItemList[*grid.Area]](ctx.Store, s.unmodifiedTag)
		modified, _ := gen.First[*gen.ItemList[*grid.Area]](ctx.Store, s.modifiedTag)

		seen := make(map[grid.Point]struct{})
		for _, area := range unmodified.Items() {
			for _, p := range area.Points() {
				seen[p] = struct{}{}
			}
		}
		for _, area := range modified.Items() {
			for _, p := range append([]grid.Point(nil), area.Points()...) {
				if _, dup := seen[p]; dup {
					area.Remove(p)
					continue
				}
				seen[p] = struct{}{}
			}
		}
		return nil
	})
}
