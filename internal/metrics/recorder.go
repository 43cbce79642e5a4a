// Package metrics provides observability hooks for map generation.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks and costs
// nothing when disabled. Swap in PrometheusRecorder to activate collection.
package metrics

import "time"

// Outcome labels the terminal state of a generation run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Recorder defines the observability hooks the generator calls. All methods
// must be cheap and safe to call from the generation loop.
type Recorder interface {
	// IncAttempt counts one generation attempt (including retries).
	IncAttempt()
	// IncRegenerate counts one regenerate signal handled by a safe mode.
	IncRegenerate()
	// ObserveStepDuration records the wall time of one fully drained step.
	ObserveStepDuration(step string, d time.Duration)
	// ObserveGeneration records the wall time of one attempt with its outcome.
	ObserveGeneration(d time.Duration, outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) IncAttempt()                               {}
func (NoopRecorder) IncRegenerate()                            {}
func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) ObserveGeneration(time.Duration, Outcome)  {}

// StepTiming is one step's accumulated wall time.
type StepTiming struct {
	Step     string
	Duration time.Duration
}

// CaptureRecorder keeps observations in memory, for reports and tests. Not
// safe for concurrent use; give each generator its own.
type CaptureRecorder struct {
	Attempts    int
	Regenerates int
	steps       []StepTiming
	index       map[string]int
}

func (c *CaptureRecorder) IncAttempt()    { c.Attempts++ }
func (c *CaptureRecorder) IncRegenerate() { c.Regenerates++ }

func (c *CaptureRecorder) ObserveStepDuration(step string, d time.Duration) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	i, ok := c.index[step]
	if !ok {
		i = len(c.steps)
		c.index[step] = i
		c.steps = append(c.steps, StepTiming{Step: step})
	}
	c.steps[i].Duration += d
}

func (c *CaptureRecorder) ObserveGeneration(time.Duration, Outcome) {}

// StepTimings returns accumulated per-step durations in first-observed order.
func (c *CaptureRecorder) StepTimings() []StepTiming {
	return append([]StepTiming(nil), c.steps...)
}
