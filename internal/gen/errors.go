package gen

import (
	"errors"
	"fmt"
)

// ErrRegenerate is the deliberate control-flow signal a step returns when the
// current attempt cannot be completed from its present state and the whole
// map should be discarded and rebuilt. It is not a defect: GenerateSafe and
// StageEnumeratorSafe catch it and retry with a fresh context, while
// Generate propagates it to the caller like any other error.
//
// Steps should wrap it via Regenerate rather than returning it bare.
var ErrRegenerate = errors.New("generation attempt cannot be completed")

// Regenerate builds a regenerate signal carrying a reason. The generator
// prefixes the originating step name when the error propagates.
func Regenerate(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrRegenerate)
}

// ErrRetryLimitExceeded is reported by the safe driving modes when the
// configured attempt cap is reached. The returned error also wraps the last
// regenerate signal, so errors.Is(err, ErrRegenerate) still holds.
var ErrRetryLimitExceeded = errors.New("generation retry limit exceeded")

// InvalidDimensionsError reports a context constructed with non-positive
// width or height.
type InvalidDimensionsError struct {
	Width, Height int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("gen: invalid context dimensions %dx%d (both must be positive)", e.Width, e.Height)
}

// DuplicateComponentError reports an Add whose exact (type, tag) pair is
// already present in the store.
type DuplicateComponentError struct {
	TypeName string
	Tag      string
}

func (e *DuplicateComponentError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("gen: untagged component of type %s already present", e.TypeName)
	}
	return fmt.Sprintf("gen: component of type %s with tag %q already present", e.TypeName, e.Tag)
}

// MissingComponentError reports a step requirement that was absent when the
// step was about to run.
type MissingComponentError struct {
	Step     string
	TypeName string
	Tag      string
	Any      bool
}

func (e *MissingComponentError) Error() string {
	switch {
	case e.Any:
		return fmt.Sprintf("gen: step %s requires a component of type %s (any tag), none present", e.Step, e.TypeName)
	case e.Tag == "":
		return fmt.Sprintf("gen: step %s requires an untagged component of type %s, none present", e.Step, e.TypeName)
	default:
		return fmt.Sprintf("gen: step %s requires a component of type %s tagged %q, none present", e.Step, e.TypeName, e.Tag)
	}
}

// StepConfigError reports contradictory parameters detected by a step
// constructor, before any generation begins.
type StepConfigError struct {
	Step   string
	Reason string
}

func (e *StepConfigError) Error() string {
	return fmt.Sprintf("gen: step %s misconfigured: %s", e.Step, e.Reason)
}

// StateError reports a generator operation invoked in the wrong lifecycle
// state, such as adding steps while a run is in progress.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("gen: %s not allowed in state %s", e.Op, e.State)
}
