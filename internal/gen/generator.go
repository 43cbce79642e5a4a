package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mapforge/internal/metrics"
)

// State describes where a Generator is in its lifecycle.
type State int

const (
	// StateIdle is the zero value: no context or steps yet.
	StateIdle State = iota
	// StateConfiguring accepts steps via AddStep/AddSteps.
	StateConfiguring
	// StateRunning means steps are executing in order.
	StateRunning
	// StateCompleted means every step finished normally.
	StateCompleted
	// StateFailed means an error propagated out of a run.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultMaxAttempts bounds safe-mode retries. The regenerate loop is
// deliberately bounded: a step whose constraints can never be satisfied
// would otherwise spin forever. WithMaxAttempts(0) removes the cap.
const DefaultMaxAttempts = 100

// ConfigureFunc populates a freshly reset generator for one attempt: it adds
// the ordered step list and any pre-seeded components (an RNG source, for
// example) to the new context. Safe modes re-invoke it on every retry.
type ConfigureFunc func(*Generator) error

// Generator owns an ordered step list and the current context, and drives
// execution to completion, stage by stage, or in a safe retrying mode.
// It is exclusively owned by one caller; nothing here is safe for
// concurrent use.
type Generator struct {
	width, height int

	steps   []Step
	ctx     *Context
	state   State
	attempt int

	maxAttempts int
	recorder    metrics.Recorder
	log         *slog.Logger
}

// Option configures a Generator at construction.
type Option func(*Generator)

// WithMaxAttempts sets the safe-mode retry ceiling. Zero means unbounded,
// which callers must opt into explicitly.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) { g.maxAttempts = n }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithLogger injects a logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a generator for a map of the given dimensions with a fresh
// context, ready for step configuration. Non-positive dimensions fail with
// *InvalidDimensionsError.
func New(width, height int, opts ...Option) (*Generator, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidDimensionsError{Width: width, Height: height}
	}
	g := &Generator{
		width:       width,
		height:      height,
		maxAttempts: DefaultMaxAttempts,
		recorder:    metrics.NoopRecorder{},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reset()
	return g, nil
}

// reset discards the current context and step list and begins a new attempt.
func (g *Generator) reset() {
	ctx, err := NewContext(g.width, g.height)
	if err != nil {
		// Dimensions were validated in New.
		panic(err)
	}
	g.ctx = ctx
	g.steps = nil
	g.state = StateConfiguring
	g.attempt++
}

// Context returns the current attempt's context. After a completed run this
// is where the caller reads the generated components.
func (g *Generator) Context() *Context { return g.ctx }

// State returns the generator's lifecycle state.
func (g *Generator) State() State { return g.state }

// Attempt returns the 1-based number of the current attempt. Configure
// callbacks use it to vary randomness between retries.
func (g *Generator) Attempt() int { return g.attempt }

// AddStep appends a step to the execution order. Only legal while
// configuring.
func (g *Generator) AddStep(step Step) error {
	if g.state != StateConfiguring {
		return &StateError{Op: "AddStep", State: g.state}
	}
	if step == nil {
		return fmt.Errorf("gen: cannot add nil step")
	}
	g.steps = append(g.steps, step)
	return nil
}

// AddSteps appends steps in order. Only legal while configuring.
func (g *Generator) AddSteps(steps ...Step) error {
	for _, step := range steps {
		if err := g.AddStep(step); err != nil {
			return err
		}
	}
	return nil
}

// Generate runs every configured step to completion in order: for each step
// it checks requirements, then drains the step's stages. The first error
// halts the run and is returned unfiltered — including regenerate signals,
// which only the safe driving modes interpret.
func (g *Generator) Generate() error {
	if g.state != StateConfiguring {
		return &StateError{Op: "Generate", State: g.state}
	}
	g.state = StateRunning
	start := time.Now()
	for _, step := range g.steps {
		if err := g.runStep(step); err != nil {
			g.state = StateFailed
			g.recorder.ObserveGeneration(time.Since(start), metrics.OutcomeFailed)
			return err
		}
	}
	g.state = StateCompleted
	g.recorder.ObserveGeneration(time.Since(start), metrics.OutcomeCompleted)
	return nil
}

func (g *Generator) runStep(step Step) error {
	if err := CheckRequirements(step, g.ctx); err != nil {
		return err
	}
	g.log.Debug("running generation step", "step", step.Name(), "attempt", g.attempt)
	start := time.Now()
	err := step.Perform(g.ctx).Drain()
	g.recorder.ObserveStepDuration(step.Name(), time.Since(start))
	if err != nil {
		return fmt.Errorf("step %s: %w", step.Name(), err)
	}
	return nil
}

// GenerateSafe configures and runs the generator, discarding the context and
// step list and rebuilding both via configure whenever a step signals
// regeneration. Any other error — missing components, step configuration
// problems, unexpected step failures — is surfaced immediately without
// retry. Bounded by WithMaxAttempts.
func (g *Generator) GenerateSafe(configure ConfigureFunc) error {
	g.attempt = 0
	for {
		g.reset()
		g.recorder.IncAttempt()
		if err := configure(g); err != nil {
			g.state = StateFailed
			return fmt.Errorf("configuring generator: %w", err)
		}
		err := g.Generate()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRegenerate) {
			return err
		}
		g.recorder.IncRegenerate()
		g.log.Debug("regenerating map", "attempt", g.attempt, "cause", err)
		if g.maxAttempts > 0 && g.attempt >= g.maxAttempts {
			g.state = StateFailed
			return fmt.Errorf("%w after %d attempts: %w", ErrRetryLimitExceeded, g.attempt, err)
		}
	}
}

// StageEnumerator drives a safe generation one stage at a time, so a caller
// can observe (and, say, redraw) the partially generated map between
// individual atomic stages.
type StageEnumerator struct {
	g         *Generator
	configure ConfigureFunc
	stepIdx   int // -1 = attempt needs (re)configuration
	stages    *Stages
	done      bool
	err       error
}

// StageEnumeratorSafe returns an enumerator with the same configure/retry
// contract as GenerateSafe. Advancing it drains exactly one stage from the
// current step, moving to the next step once the current one is exhausted.
// A regenerate signal mid-sequence rebuilds context and steps transparently:
// the caller only observes that stages keep coming.
func (g *Generator) StageEnumeratorSafe(configure ConfigureFunc) *StageEnumerator {
	g.attempt = 0
	return &StageEnumerator{g: g, configure: configure, stepIdx: -1}
}

// Next performs exactly one generation stage. It returns (true, nil) when a
// stage completed, (false, nil) once all steps have finished, and
// (false, err) on a fatal error. After completion or failure the result is
// sticky.
func (e *StageEnumerator) Next() (bool, error) {
	if e.done {
		return false, e.err
	}
	for {
		// (Re)start an attempt when none is in progress.
		if e.stepIdx < 0 {
			e.g.reset()
			e.g.recorder.IncAttempt()
			if err := e.configure(e.g); err != nil {
				return e.fail(fmt.Errorf("configuring generator: %w", err))
			}
			e.g.state = StateRunning
			e.stepIdx = 0
			e.stages = nil
		}
		// Enter the next step if the previous one is exhausted.
		if e.stages == nil {
			if e.stepIdx >= len(e.g.steps) {
				e.g.state = StateCompleted
				e.done = true
				return false, nil
			}
			step := e.g.steps[e.stepIdx]
			if err := CheckRequirements(step, e.g.ctx); err != nil {
				return e.fail(err)
			}
			e.g.log.Debug("entering generation step", "step", step.Name(), "attempt", e.g.attempt)
			e.stages = step.Perform(e.g.ctx)
		}
		advanced, err := e.stages.Next()
		if err != nil {
			e.stages = nil
			if errors.Is(err, ErrRegenerate) {
				if rerr := e.retry(err); rerr != nil {
					return e.fail(rerr)
				}
				continue
			}
			return e.fail(fmt.Errorf("step %s: %w", e.g.steps[e.stepIdx].Name(), err))
		}
		if advanced {
			return true, nil
		}
		// Step exhausted without yielding a stage; advance to the next one
		// within the same pull.
		e.stages = nil
		e.stepIdx++
	}
}

// Drain advances the enumerator until generation completes or fails.
func (e *StageEnumerator) Drain() error {
	for {
		ok, err := e.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (e *StageEnumerator) retry(cause error) error {
	e.g.recorder.IncRegenerate()
	e.g.log.Debug("regenerating map mid-enumeration", "attempt", e.g.attempt, "cause", cause)
	if e.g.maxAttempts > 0 && e.g.attempt >= e.g.maxAttempts {
		return fmt.Errorf("%w after %d attempts: %w", ErrRetryLimitExceeded, e.g.attempt, cause)
	}
	e.stepIdx = -1
	return nil
}

func (e *StageEnumerator) fail(err error) (bool, error) {
	if e.stages != nil {
		e.stages.Stop()
		e.stages = nil
	}
	e.g.state = StateFailed
	e.done = true
	e.err = err
	return false, err
}
