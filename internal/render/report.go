package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/mapforge/internal/metrics"
)

// Report collects the facts of one generation run for export.
type Report struct {
	Recipe    string
	Algorithm string
	Seed      int64
	Width     int
	Height    int
	Attempts  int
	Duration  time.Duration
	// Rooms and Areas count the published components; zero means the
	// algorithm produced none of that kind.
	Rooms int
	Areas int
	// FloorRatio is walkable cells over total cells.
	FloorRatio float64
	// StepTimings holds accumulated per-step wall time across all attempts.
	StepTimings []metrics.StepTiming
	// Map is the plain ASCII rendering.
	Map string
}

// Markdown renders the report as a Markdown document.
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Map report: %s\n\n", r.Recipe)
	fmt.Fprintf(&b, "| Property | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Algorithm | %s |\n", r.Algorithm)
	fmt.Fprintf(&b, "| Seed | %d |\n", r.Seed)
	fmt.Fprintf(&b, "| Size | %dx%d |\n", r.Width, r.Height)
	fmt.Fprintf(&b, "| Attempts | %d |\n", r.Attempts)
	fmt.Fprintf(&b, "| Duration | %s |\n", r.Duration)
	if r.Rooms > 0 {
		fmt.Fprintf(&b, "| Rooms | %d |\n", r.Rooms)
	}
	if r.Areas > 0 {
		fmt.Fprintf(&b, "| Areas | %d |\n", r.Areas)
	}
	fmt.Fprintf(&b, "| Floor ratio | %.1f%% |\n", r.FloorRatio*100)
	if len(r.StepTimings) > 0 {
		b.WriteString("\n## Step timings\n\n| Step | Duration |\n|---|---|\n")
		for _, st := range r.StepTimings {
			fmt.Fprintf(&b, "| %s | %s |\n", st.Step, st.Duration)
		}
	}
	fmt.Fprintf(&b, "\n```text\n%s\n```\n", r.Map)
	return b.String()
}

// HTML renders the Markdown report to HTML.
func (r Report) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("convert report to html: %w", err)
	}
	return buf.String(), nil
}
