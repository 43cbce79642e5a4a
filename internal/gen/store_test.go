package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomTally struct{ rooms int }

type edgeSet struct{ edges []string }

// sized is implemented by both test component types, for polymorphic queries.
type sized interface{ size() int }

func (r *roomTally) size() int { return r.rooms }
func (e *edgeSet) size() int   { return len(e.edges) }

func TestStoreAddAndFirst(t *testing.T) {
	s := NewStore()
	tagged := &roomTally{rooms: 3}
	untagged := &roomTally{rooms: 7}

	require.NoError(t, s.Add(tagged, "Rooms"))
	require.NoError(t, s.Add(untagged, ""))

	got, ok := First[*roomTally](s, "Rooms")
	require.True(t, ok)
	assert.Same(t, tagged, got)

	// Empty tag matches only the untagged component.
	got, ok = First[*roomTally](s, "")
	require.True(t, ok)
	assert.Same(t, untagged, got)

	_, ok = First[*roomTally](s, "Tunnels")
	assert.False(t, ok)

	// FirstAny ignores tags and honors insertion order.
	got, ok = FirstAny[*roomTally](s)
	require.True(t, ok)
	assert.Same(t, tagged, got)
}

func TestStoreDuplicateAdd(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(&roomTally{}, "Rooms"))

	err := s.Add(&roomTally{}, "Rooms")
	var dup *DuplicateComponentError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Rooms", dup.Tag)

	// Same type under a different tag is fine, as is a different type under
	// the same tag.
	assert.NoError(t, s.Add(&roomTally{}, "Other"))
	assert.NoError(t, s.Add(&edgeSet{}, "Rooms"))
}

func TestStoreNilComponent(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.Add(nil, "Rooms"))
}

func TestStorePolymorphicLookup(t *testing.T) {
	s := NewStore()
	first := &roomTally{rooms: 1}
	second := &edgeSet{edges: []string{"a", "b"}}
	require.NoError(t, s.Add(first, "Rooms"))
	require.NoError(t, s.Add(second, "Rooms"))

	// An interface query matches any assignable component, first by
	// insertion order.
	got, ok := First[sized](s, "Rooms")
	require.True(t, ok)
	assert.Same(t, sized(first), got)

	all := All[sized](s, "Rooms")
	require.Len(t, all, 2)
	assert.Same(t, sized(first), all[0])
	assert.Same(t, sized(second), all[1])
}

func TestStoreAllIsRestartable(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(&roomTally{}, "Rooms"))

	before := AllAny[sized](s)
	require.Len(t, before, 1)

	require.NoError(t, s.Add(&edgeSet{}, "Rooms"))

	// Re-querying recomputes against current contents.
	after := AllAny[sized](s)
	assert.Len(t, after, 2)
}

func TestStoreFirstOrNewRunsFactoryAtMostOnce(t *testing.T) {
	s := NewStore()
	calls := 0
	factory := func() *roomTally {
		calls++
		return &roomTally{}
	}

	a := FirstOrNew(s, "Rooms", factory)
	b := FirstOrNew(s, "Rooms", factory)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)

	// A different tag seeds a separate component.
	c := FirstOrNew(s, "Tunnels", factory)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, calls)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	comp := &roomTally{}
	require.NoError(t, s.Add(comp, "Rooms"))

	s.Remove(comp)
	_, ok := First[*roomTally](s, "Rooms")
	assert.False(t, ok)

	// Removing an absent instance is a silent no-op.
	s.Remove(comp)
	s.Remove(&edgeSet{})

	// The (type, tag) slot is free again after removal.
	assert.NoError(t, s.Add(&roomTally{}, "Rooms"))
	assert.Equal(t, 1, s.Len())
}

func TestStoreRemoveNonComparableComponent(t *testing.T) {
	s := NewStore()
	cells := []bool{true, false}
	require.NoError(t, s.Add(cells, "Walls"))

	s.Remove(cells)
	_, ok := First[[]bool](s, "Walls")
	assert.False(t, ok)
}

func TestContextDimensions(t *testing.T) {
	ctx, err := NewContext(10, 12)
	require.NoError(t, err)
	assert.Equal(t, 10, ctx.Width)
	assert.Equal(t, 12, ctx.Height)
	assert.NotNil(t, ctx.Store)

	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 5}, {5, -3}, {0, 0}} {
		_, err := NewContext(dims[0], dims[1])
		var invalid *InvalidDimensionsError
		require.ErrorAs(t, err, &invalid, "dims %v", dims)
		assert.Equal(t, dims[0], invalid.Width)
		assert.Equal(t, dims[1], invalid.Height)
	}
}

func TestItemListTracksSources(t *testing.T) {
	l := NewItemList[string]()
	l.Add("a", "StepOne")
	l.AddRange([]string{"b", "c"}, "StepTwo")

	require.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"a", "b", "c"}, l.Items())
	assert.Equal(t, "StepOne", l.SourceOf(0))
	assert.Equal(t, "StepTwo", l.SourceOf(2))
}

func TestErrRegenerateWrapping(t *testing.T) {
	err := Regenerate("no placement satisfies constraints after %d tries", 30)
	assert.True(t, errors.Is(err, ErrRegenerate))
	assert.Contains(t, err.Error(), "30 tries")
}
