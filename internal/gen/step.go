package gen

import (
	"iter"
	"reflect"
)

// Requirement declares a component a step needs to exist before it may run.
type Requirement struct {
	// TypeName is the human-readable component type, for diagnostics.
	TypeName string
	// Tag filters the lookup; empty means untagged. Any ignores the tag.
	Tag string
	Any bool

	present func(*Store) bool
}

// Require declares a requirement for a component assignable to T carrying
// exactly tag (empty tag = untagged).
func Require[T any](tag string) Requirement {
	return Requirement{
		TypeName: typeName[T](),
		Tag:      tag,
		present: func(s *Store) bool {
			_, ok := First[T](s, tag)
			return ok
		},
	}
}

// RequireAny declares a requirement for a component assignable to T under
// any tag.
func RequireAny[T any]() Requirement {
	return Requirement{
		TypeName: typeName[T](),
		Any:      true,
		present: func(s *Store) bool {
			_, ok := FirstAny[T](s)
			return ok
		},
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Step is one named, precondition-checked unit of generation work.
//
// Requirements are validated once by the generator immediately before the
// step runs, never by the step itself and never mid-run. Perform returns the
// staged execution of the step; no work happens until the first stage is
// pulled.
type Step interface {
	Name() string
	Requirements() []Requirement
	Perform(ctx *Context) *Stages
}

// CheckRequirements verifies every declared requirement of step against ctx,
// returning a *MissingComponentError for the first absent one.
func CheckRequirements(step Step, ctx *Context) error {
	for _, req := range step.Requirements() {
		if !req.present(ctx.Store) {
			return &MissingComponentError{
				Step:     step.Name(),
				TypeName: req.TypeName,
				Tag:      req.Tag,
				Any:      req.Any,
			}
		}
	}
	return nil
}

// BaseStep supplies the name and requirements half of the Step contract so
// concrete steps only implement Perform.
type BaseStep struct {
	name string
	reqs []Requirement
}

// NewBaseStep builds the embedded base for a concrete step.
func NewBaseStep(name string, reqs ...Requirement) BaseStep {
	return BaseStep{name: name, reqs: reqs}
}

func (b BaseStep) Name() string                { return b.name }
func (b BaseStep) Requirements() []Requirement { return b.reqs }

// Stages is the pull side of a step's staged execution. Each Next performs
// one atomic, non-repeatable unit of the step's work against the context;
// suspension happens only between pulls, never mid-mutation. A caller that
// abandons a Stages without draining it must call Stop.
type Stages struct {
	next func() (error, bool)
	stop func()
	done bool
	err  error
}

// NewStages converts a push-style staged step body into a pull iterator. The
// body calls yield after each completed atomic unit of work; yield reports
// whether the consumer wants more, and bodies should return promptly once it
// reports false. Returning an error (typically built with Regenerate) aborts
// the step on the pull that observed it.
//
// A body that never yields still produces exactly one stage representing
// "fully done", so unstaged steps need no special handling.
func NewStages(body func(yield func() bool) error) *Stages {
	seq := func(emit func(error) bool) {
		stopped := false
		yielded := false
		err := body(func() bool {
			yielded = true
			if !emit(nil) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
		if err != nil {
			emit(err)
			return
		}
		if !yielded {
			emit(nil)
		}
	}
	next, stop := iter.Pull(seq)
	return &Stages{next: next, stop: stop}
}

// OneStage wraps an unstaged body as a single completing stage.
func OneStage(body func() error) *Stages {
	return NewStages(func(func() bool) error {
		return body()
	})
}

// Next advances the step by one stage. It returns (true, nil) when a stage
// completed and more may remain, (false, nil) once the step has finished,
// and (false, err) when the body failed or signaled regeneration. After a
// failure the error is sticky.
func (st *Stages) Next() (bool, error) {
	if st.done {
		return false, st.err
	}
	err, ok := st.next()
	if !ok {
		st.done = true
		st.stop()
		return false, nil
	}
	if err != nil {
		st.done = true
		st.err = err
		st.stop()
		return false, err
	}
	return true, nil
}

// Drain advances stages until the step completes or fails.
func (st *Stages) Drain() error {
	for {
		ok, err := st.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// Stop releases the stage machinery without performing further work. Safe to
// call more than once.
func (st *Stages) Stop() {
	if !st.done {
		st.done = true
		st.stop()
	}
}
