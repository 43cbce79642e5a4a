// Package render turns generated map contexts into human-readable output:
// plain and colorized ASCII for terminals, and Markdown/HTML generation
// reports.
package render

import (
	"strings"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/mapforge/internal/grid"
)

// Glyphs maps cell walkability to characters.
type Glyphs struct {
	Floor rune
	Wall  rune
}

// DefaultGlyphs is the conventional roguelike rendering.
var DefaultGlyphs = Glyphs{Floor: '.', Wall: '#'}

func (g Glyphs) withDefaults() Glyphs {
	if g.Floor == 0 {
		g.Floor = DefaultGlyphs.Floor
	}
	if g.Wall == 0 {
		g.Wall = DefaultGlyphs.Wall
	}
	return g
}

// Walkability renders the grid as ASCII, one row per line, top row first.
func Walkability(walls *grid.Grid[bool], glyphs Glyphs) string {
	glyphs = glyphs.withDefaults()
	var b strings.Builder
	b.Grow((walls.Width() + 1) * walls.Height())
	for y := 0; y < walls.Height(); y++ {
		for x := 0; x < walls.Width(); x++ {
			if walls.At(grid.Pt(x, y)) {
				b.WriteRune(glyphs.Floor)
			} else {
				b.WriteRune(glyphs.Wall)
			}
		}
		if y < walls.Height()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Colorized renders the grid as ANSI-colored ASCII: green floors on a
// dim-gray wall field. Color output honors the fatih/color global switches,
// so piping to a file degrades to plain text.
func Colorized(walls *grid.Grid[bool], glyphs Glyphs) string {
	glyphs = glyphs.withDefaults()
	floorStyle := color.New(color.FgGreen)
	wallStyle := color.New(color.FgHiBlack)

	var b strings.Builder
	for y := 0; y < walls.Height(); y++ {
		for x := 0; x < walls.Width(); x++ {
			if walls.At(grid.Pt(x, y)) {
				b.WriteString(floorStyle.Sprint(string(glyphs.Floor)))
			} else {
				b.WriteString(wallStyle.Sprint(string(glyphs.Wall)))
			}
		}
		if y < walls.Height()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
