// Package soak runs a recipe many times in parallel to measure how reliably
// and quickly it generates, surfacing recipes that lean too hard on
// regeneration before they reach production.
package soak

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/recipe"
)

// Result aggregates one soak campaign.
type Result struct {
	Runs          int
	Failures      int
	TotalAttempts int
	MaxAttempts   int
	Elapsed       time.Duration
}

// AverageAttempts is attempts per run, failures included.
func (r Result) AverageAttempts() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.TotalAttempts) / float64(r.Runs)
}

// Run generates rec runs times with at most concurrency generations in
// flight, passing opts to every generator. Each run derives its own seed from
// the recipe seed so runs differ but the whole campaign is reproducible.
// Generation failures are counted, not fatal; Run errors only when ctx is
// canceled.
func Run(ctx context.Context, rec *recipe.Recipe, runs, concurrency int, opts ...gen.Option) (Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	start := time.Now()

	var mu sync.Mutex
	result := Result{Runs: runs}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for i := 0; i < runs; i++ {
		run := i
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Space run seeds far enough apart that per-attempt reseeding
			// never collides between runs.
			runRec := *rec
			runRec.Seed = rec.Seed + int64(run)*int64(gen.DefaultMaxAttempts)

			g, err := runRec.Generator(opts...)
			if err != nil {
				return err
			}
			genErr := g.GenerateSafe(runRec.Configure())

			mu.Lock()
			defer mu.Unlock()
			result.TotalAttempts += g.Attempt()
			if g.Attempt() > result.MaxAttempts {
				result.MaxAttempts = g.Attempt()
			}
			if genErr != nil {
				result.Failures++
				slog.Debug("soak run failed", "run", run, "seed", runRec.Seed, "error", genErr)
			}
			return nil
		})
	}
	err := group.Wait()
	result.Elapsed = time.Since(start)
	return result, err
}
