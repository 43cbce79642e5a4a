package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mapforge/internal/archive"
	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/metrics"
	"git.home.luguber.info/inful/mapforge/internal/preview"
	"git.home.luguber.info/inful/mapforge/internal/recipe"
	"git.home.luguber.info/inful/mapforge/internal/render"
	"git.home.luguber.info/inful/mapforge/internal/soak"
	"git.home.luguber.info/inful/mapforge/internal/steps"
	"git.home.luguber.info/inful/mapforge/internal/version"
)

var CLI struct {
	Recipe  string `short:"r" help:"Recipe file path" default:"recipe.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate struct {
		Color bool   `help:"Colorize the rendered map"`
		DB    string `help:"Archive database path; when set the map is saved" default:""`
	} `cmd:"" help:"Generate a map from the recipe and print it"`

	Init struct {
		Force bool `help:"Overwrite existing recipe file"`
	} `cmd:"" help:"Initialize a new recipe file"`

	Preview struct {
		Color      bool          `help:"Colorize the rendered frames"`
		FrameDelay time.Duration `help:"Pause between stages" default:"25ms"`
	} `cmd:"" help:"Animate generation stage by stage, re-running on recipe changes"`

	Soak struct {
		Runs          int    `short:"n" help:"Number of generations to run" default:"100"`
		Concurrency   int    `short:"j" help:"Parallel generations" default:"4"`
		MetricsListen string `help:"Serve Prometheus metrics on this address while soaking" default:""`
	} `cmd:"" help:"Run a recipe repeatedly to measure reliability"`

	Report struct {
		Format string `help:"Output format: markdown or html" enum:"markdown,html" default:"markdown"`
	} `cmd:"" help:"Generate a map and emit a generation report"`

	Version struct{} `cmd:"" help:"Print version information"`

	Archive struct {
		DB string `help:"Archive database path" default:"mapforge.db"`

		List struct {
			Limit int `help:"Maximum records to list (0 = all)" default:"20"`
		} `cmd:"" help:"List archived maps, newest first"`

		Show struct {
			ID string `arg:"" help:"Record ID to display"`
		} `cmd:"" help:"Print one archived map"`

		Prune struct {
			OlderThan time.Duration `help:"Delete records older than this" default:"720h"`
		} `cmd:"" help:"Delete old archived maps"`
	} `cmd:"" help:"Inspect the map archive"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "generate":
		err = runGenerate()
	case "init":
		err = recipe.Init(CLI.Recipe, CLI.Init.Force)
	case "preview":
		err = runPreview()
	case "soak":
		err = runSoak()
	case "report":
		err = runReport()
	case "version":
		fmt.Printf("mapforge %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
	case "archive list":
		err = runArchiveList()
	case "archive show <id>":
		err = runArchiveShow()
	case "archive prune":
		err = runArchivePrune()
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

// generation runs a recipe to completion and returns the generator plus the
// elapsed wall time.
func generation(rec *recipe.Recipe) (*gen.Generator, time.Duration, error) {
	g, err := rec.Generator()
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	if err := g.GenerateSafe(rec.Configure()); err != nil {
		return nil, 0, err
	}
	return g, time.Since(start), nil
}

func walkabilityGrid(g *gen.Generator) (*grid.Grid[bool], error) {
	walls, ok := gen.First[*grid.Grid[bool]](g.Context().Store, steps.TagWallFloor)
	if !ok {
		return nil, fmt.Errorf("generation produced no walkability grid")
	}
	return walls, nil
}

func runGenerate() error {
	rec, err := recipe.Load(CLI.Recipe)
	if err != nil {
		return err
	}
	g, elapsed, err := generation(rec)
	if err != nil {
		return err
	}
	walls, err := walkabilityGrid(g)
	if err != nil {
		return err
	}

	plain := render.Walkability(walls, render.Glyphs{})
	if CLI.Generate.Color {
		fmt.Println(render.Colorized(walls, render.Glyphs{}))
	} else {
		fmt.Println(plain)
	}
	slog.Info("Map generated",
		"recipe", rec.Name,
		"algorithm", rec.Algorithm,
		"seed", rec.Seed,
		"attempts", g.Attempt(),
		"duration", elapsed)

	if CLI.Generate.DB == "" {
		return nil
	}
	store, err := archive.Open(CLI.Generate.DB)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.Save(context.Background(), archive.Record{
		Recipe:    rec.Name,
		Algorithm: rec.Algorithm,
		Seed:      rec.Seed,
		Width:     rec.Width,
		Height:    rec.Height,
		Attempts:  g.Attempt(),
		Duration:  elapsed,
		Cells:     plain,
	})
	if err != nil {
		return err
	}
	slog.Info("Map archived", "id", id, "db", CLI.Generate.DB)
	return nil
}

func runPreview() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := preview.NewRunner(CLI.Recipe, preview.Options{
		FrameDelay: CLI.Preview.FrameDelay,
		Colorize:   CLI.Preview.Color,
	})
	if err != nil {
		return err
	}
	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runSoak() error {
	rec, err := recipe.Load(CLI.Recipe)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []gen.Option
	if addr := CLI.Soak.MetricsListen; addr != "" {
		reg := prom.NewRegistry()
		opts = append(opts, gen.WithRecorder(metrics.NewPrometheusRecorder(reg)))

		srv := &http.Server{Addr: addr, Handler: metrics.HTTPHandler(reg)}
		go func() {
			slog.Info("Serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
	}

	res, err := soak.Run(ctx, rec, CLI.Soak.Runs, CLI.Soak.Concurrency, opts...)
	if err != nil {
		return err
	}
	slog.Info("Soak complete",
		"runs", res.Runs,
		"failures", res.Failures,
		"total_attempts", res.TotalAttempts,
		"max_attempts", res.MaxAttempts,
		"avg_attempts", fmt.Sprintf("%.2f", res.AverageAttempts()),
		"elapsed", res.Elapsed)
	if res.Failures > 0 {
		return fmt.Errorf("%d of %d runs failed", res.Failures, res.Runs)
	}
	return nil
}

func runReport() error {
	rec, err := recipe.Load(CLI.Recipe)
	if err != nil {
		return err
	}
	capture := &metrics.CaptureRecorder{}
	g, err := rec.Generator(gen.WithRecorder(capture))
	if err != nil {
		return err
	}
	start := time.Now()
	if err := g.GenerateSafe(rec.Configure()); err != nil {
		return err
	}
	elapsed := time.Since(start)
	walls, err := walkabilityGrid(g)
	if err != nil {
		return err
	}

	rep := render.Report{
		Recipe:      rec.Name,
		Algorithm:   rec.Algorithm,
		Seed:        rec.Seed,
		Width:       rec.Width,
		Height:      rec.Height,
		Attempts:    g.Attempt(),
		Duration:    elapsed,
		StepTimings: capture.StepTimings(),
		Map:         render.Walkability(walls, render.Glyphs{}),
	}
	if rooms, ok := gen.First[*gen.ItemList[grid.Rect]](g.Context().Store, steps.TagRooms); ok {
		rep.Rooms = rooms.Len()
	}
	if areas, ok := gen.First[*gen.ItemList[*grid.Area]](g.Context().Store, steps.TagAreas); ok {
		rep.Areas = areas.Len()
	}
	floor := walls.Count(func(c bool) bool { return c })
	rep.FloorRatio = float64(floor) / float64(rec.Width*rec.Height)

	if CLI.Report.Format == "html" {
		html, err := rep.HTML()
		if err != nil {
			return err
		}
		fmt.Print(html)
		return nil
	}
	fmt.Print(rep.Markdown())
	return nil
}

func openArchive() (*archive.Store, error) {
	return archive.Open(CLI.Archive.DB)
}

func runArchiveList() error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), CLI.Archive.List.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("archive is empty")
		return nil
	}
	header := color.New(color.Bold)
	header.Printf("%-36s  %-20s  %-14s  %-9s  %s\n", "ID", "RECIPE", "ALGORITHM", "SIZE", "CREATED")
	for _, rec := range records {
		fmt.Printf("%-36s  %-20s  %-14s  %4dx%-4d  %s\n",
			rec.ID, rec.Recipe, rec.Algorithm, rec.Width, rec.Height,
			rec.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runArchiveShow() error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(context.Background(), CLI.Archive.Show.ID)
	if err != nil {
		return err
	}
	fmt.Printf("recipe: %s\nalgorithm: %s\nseed: %d\nattempts: %d\nduration: %s\ncreated: %s\n\n%s\n",
		rec.Recipe, rec.Algorithm, rec.Seed, rec.Attempts, rec.Duration,
		rec.CreatedAt.Format(time.RFC3339), rec.Cells)
	return nil
}

func runArchivePrune() error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	cutoff := time.Now().Add(-CLI.Archive.Prune.OlderThan)
	n, err := store.Prune(context.Background(), cutoff)
	if err != nil {
		return err
	}
	slog.Info("Archive pruned", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	return nil
}
