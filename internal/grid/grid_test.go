package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectGeometry(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 2}
	assert.Equal(t, 5, r.MaxX())
	assert.Equal(t, 4, r.MaxY())
	assert.Equal(t, Pt(4, 4), r.Center())
	assert.True(t, r.Contains(Pt(2, 3)))
	assert.True(t, r.Contains(Pt(5, 4)))
	assert.False(t, r.Contains(Pt(6, 4)))
	assert.Len(t, r.Points(), 8)
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 3, Height: 3}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{X: 2, Y: 2, Width: 3, Height: 3}, true},
		{"touching edge", Rect{X: 3, Y: 0, Width: 2, Height: 2}, false},
		{"disjoint", Rect{X: 5, Y: 5, Width: 2, Height: 2}, false},
		{"contained", Rect{X: 1, Y: 1, Width: 1, Height: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(a))
		})
	}

	// Expanding by one makes edge-adjacent rectangles collide, the check
	// room placement relies on.
	assert.True(t, a.Expand(1).Intersects(Rect{X: 3, Y: 0, Width: 2, Height: 2}))
}

func TestAreaMembershipAndOrder(t *testing.T) {
	a := NewArea(Pt(1, 1), Pt(2, 1), Pt(1, 1))
	require.Equal(t, 2, a.Len())
	assert.Equal(t, []Point{Pt(1, 1), Pt(2, 1)}, a.Points())

	assert.False(t, a.Add(Pt(2, 1)))
	assert.True(t, a.Add(Pt(3, 1)))

	assert.True(t, a.Remove(Pt(2, 1)))
	assert.False(t, a.Remove(Pt(2, 1)))
	assert.Equal(t, []Point{Pt(1, 1), Pt(3, 1)}, a.Points())
	assert.False(t, a.Contains(Pt(2, 1)))
}

func TestGridAccess(t *testing.T) {
	g := New[bool](4, 3)
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.True(t, g.In(Pt(3, 2)))
	assert.False(t, g.In(Pt(4, 2)))
	assert.False(t, g.In(Pt(-1, 0)))

	g.Set(Pt(1, 2), true)
	assert.True(t, g.At(Pt(1, 2)))
	assert.Equal(t, 1, g.Count(func(v bool) bool { return v }))

	g.Fill(true)
	assert.Equal(t, 12, g.Count(func(v bool) bool { return v }))

	assert.Panics(t, func() { New[bool](0, 3) })
}

func TestRegions(t *testing.T) {
	g := New[bool](6, 3)
	// Two disjoint floor regions; diagonal contact does not connect.
	for _, p := range []Point{Pt(0, 0), Pt(1, 0), Pt(1, 1)} {
		g.Set(p, true)
	}
	for _, p := range []Point{Pt(2, 2), Pt(3, 2)} {
		g.Set(p, true)
	}

	regions := Regions(g, true)
	require.Len(t, regions, 2)
	assert.Equal(t, 3, regions[0].Len())
	assert.True(t, regions[0].Contains(Pt(1, 1)))
	assert.Equal(t, 2, regions[1].Len())
	assert.True(t, regions[1].Contains(Pt(3, 2)))
}
