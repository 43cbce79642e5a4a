package render

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/metrics"
)

func crossGrid() *grid.Grid[bool] {
	g := grid.New[bool](3, 3)
	g.Set(grid.Pt(1, 0), true)
	g.Set(grid.Pt(0, 1), true)
	g.Set(grid.Pt(1, 1), true)
	g.Set(grid.Pt(2, 1), true)
	g.Set(grid.Pt(1, 2), true)
	return g
}

func TestWalkabilityRendersRows(t *testing.T) {
	got := Walkability(crossGrid(), Glyphs{})
	assert.Equal(t, "#.#\n...\n#.#", got)
}

func TestWalkabilityCustomGlyphs(t *testing.T) {
	got := Walkability(crossGrid(), Glyphs{Floor: ' ', Wall: 'X'})
	assert.Equal(t, "X X\n   \nX X", got)
}

func TestColorizedDegradesToPlainWhenDisabled(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	assert.Equal(t, Walkability(crossGrid(), Glyphs{}), Colorized(crossGrid(), Glyphs{}))
}

func TestReportMarkdownAndHTML(t *testing.T) {
	r := Report{
		Recipe:     "example-dungeon",
		Algorithm:  "dungeon-maze",
		Seed:       42,
		Width:      3,
		Height:     3,
		Attempts:   1,
		Duration:   25 * time.Millisecond,
		Rooms:      5,
		FloorRatio: 0.556,
		StepTimings: []metrics.StepTiming{
			{Step: "RandomRooms", Duration: 12 * time.Millisecond},
			{Step: "Maze", Duration: 8 * time.Millisecond},
		},
		Map: Walkability(crossGrid(), Glyphs{}),
	}

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Map report: example-dungeon"))
	assert.Contains(t, md, "| Seed | 42 |")
	assert.Contains(t, md, "| Rooms | 5 |")
	assert.Contains(t, md, "| Floor ratio | 55.6% |")
	assert.NotContains(t, md, "| Areas |", "zero counts stay out of the table")
	assert.Contains(t, md, "## Step timings")
	assert.Contains(t, md, "| RandomRooms | 12ms |")
	assert.Contains(t, md, "#.#\n...\n#.#")

	html, err := r.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Map report: example-dungeon</h1>")
	assert.Contains(t, html, "<table>")
}
