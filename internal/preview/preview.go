// Package preview animates map generation in the terminal, redrawing the map
// after every stage, and re-runs the animation whenever the recipe file
// changes on disk.
package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/recipe"
	"git.home.luguber.info/inful/mapforge/internal/render"
	"git.home.luguber.info/inful/mapforge/internal/steps"
)

const clearScreen = "\033[H\033[2J"

// Options tunes the preview loop. Zero values take defaults.
type Options struct {
	// FrameDelay is the pause between rendered stages (default 25ms).
	FrameDelay time.Duration
	// Debounce coalesces rapid recipe file changes (default 500ms).
	Debounce time.Duration
	// Out receives the rendered frames (default os.Stdout).
	Out io.Writer
	// Colorize renders frames with ANSI colors.
	Colorize bool
}

func (o Options) withDefaults() Options {
	if o.FrameDelay == 0 {
		o.FrameDelay = 25 * time.Millisecond
	}
	if o.Debounce == 0 {
		o.Debounce = 500 * time.Millisecond
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	return o
}

// Runner watches one recipe file and animates its generation.
type Runner struct {
	recipePath string
	opts       Options
	watcher    *fsnotify.Watcher
	redraw     chan struct{}
}

// NewRunner builds a runner for the recipe at path.
func NewRunner(path string, opts Options) (*Runner, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve recipe path: %w", err)
	}
	return &Runner{
		recipePath: absPath,
		opts:       opts.withDefaults(),
		watcher:    watcher,
		redraw:     make(chan struct{}, 1),
	}, nil
}

// Run animates the recipe once, then blocks re-animating on every file
// change until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	// Watching the directory survives editors that replace the file.
	if err := r.watcher.Add(filepath.Dir(r.recipePath)); err != nil {
		return fmt.Errorf("failed to watch recipe directory: %w", err)
	}
	defer r.watcher.Close()

	slog.Info("starting preview", "recipe", r.recipePath)
	go r.watchLoop(ctx)

	if err := r.renderOnce(ctx); err != nil {
		slog.Error("preview render failed", "error", err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	rendered := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.redraw:
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(r.opts.Debounce, func() {
				select {
				case rendered <- struct{}{}:
				default:
				}
			})
		case <-rendered:
			if err := r.renderOnce(ctx); err != nil {
				slog.Error("preview render failed", "error", err)
			}
		}
	}
}

func (r *Runner) watchLoop(ctx context.Context) {
	recipeFile := filepath.Base(r.recipePath)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != recipeFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("recipe change detected", "file", event.Name, "op", event.Op)
				select {
				case r.redraw <- struct{}{}:
				default:
				}
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("recipe watcher error", "error", err)
		}
	}
}

// renderOnce loads the recipe and drives a staged generation, drawing a frame
// after every completed stage.
func (r *Runner) renderOnce(ctx context.Context) error {
	rec, err := recipe.Load(r.recipePath)
	if err != nil {
		return err
	}
	g, err := rec.Generator()
	if err != nil {
		return err
	}

	enum := g.StageEnumeratorSafe(rec.Configure())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := enum.Next()
		if err != nil {
			return err
		}
		r.drawFrame(g, rec)
		if !ok {
			break
		}
		time.Sleep(r.opts.FrameDelay)
	}
	fmt.Fprintf(r.opts.Out, "\n%s: %s %dx%d seed %d, attempt %d\n",
		rec.Name, rec.Algorithm, rec.Width, rec.Height, rec.Seed, g.Attempt())
	return nil
}

func (r *Runner) drawFrame(g *gen.Generator, rec *recipe.Recipe) {
	walls, ok := gen.First[*grid.Grid[bool]](g.Context().Store, steps.TagWallFloor)
	if !ok {
		return
	}
	frame := render.Walkability(walls, render.Glyphs{})
	if r.opts.Colorize {
		frame = render.Colorized(walls, render.Glyphs{})
	}
	fmt.Fprint(r.opts.Out, clearScreen, frame)
}
