package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStep adapts a perform func to the Step interface for engine tests.
type testStep struct {
	BaseStep
	perform func(ctx *Context) *Stages
}

func newTestStep(name string, reqs []Requirement, perform func(ctx *Context) *Stages) *testStep {
	return &testStep{BaseStep: NewBaseStep(name, reqs...), perform: perform}
}

func (s *testStep) Perform(ctx *Context) *Stages { return s.perform(ctx) }

func TestStagesYieldPerUnit(t *testing.T) {
	work := 0
	st := NewStages(func(yield func() bool) error {
		for i := 0; i < 3; i++ {
			work++
			if !yield() {
				return nil
			}
		}
		return nil
	})

	// No work happens before the first pull.
	assert.Equal(t, 0, work)

	for i := 1; i <= 3; i++ {
		ok, err := st.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, i, work)
	}

	ok, err := st.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	// Exhaustion is sticky.
	ok, err = st.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStagesUnstagedBodyProducesOneStage(t *testing.T) {
	ran := false
	st := NewStages(func(func() bool) error {
		ran = true
		return nil
	})

	ok, err := st.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ran)

	ok, err = st.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStagesErrorDelivery(t *testing.T) {
	st := NewStages(func(yield func() bool) error {
		if !yield() {
			return nil
		}
		return Regenerate("stuck")
	})

	ok, err := st.Next()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.Next()
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegenerate))

	// The error is sticky.
	_, err2 := st.Next()
	assert.Equal(t, err, err2)
}

func TestStagesErrorWithoutYield(t *testing.T) {
	boom := errors.New("boom")
	st := NewStages(func(func() bool) error { return boom })

	ok, err := st.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestStagesStopAbandonsRemainingWork(t *testing.T) {
	work := 0
	st := NewStages(func(yield func() bool) error {
		for i := 0; i < 10; i++ {
			work++
			if !yield() {
				return nil
			}
		}
		return nil
	})

	ok, err := st.Next()
	require.NoError(t, err)
	require.True(t, ok)

	st.Stop()
	assert.Equal(t, 1, work)

	ok, err = st.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOneStage(t *testing.T) {
	ran := false
	require.NoError(t, OneStage(func() error { ran = true; return nil }).Drain())
	assert.True(t, ran)

	boom := errors.New("boom")
	assert.ErrorIs(t, OneStage(func() error { return boom }).Drain(), boom)
}

func TestCheckRequirements(t *testing.T) {
	ctx, err := NewContext(5, 5)
	require.NoError(t, err)
	require.NoError(t, ctx.Add(&roomTally{}, "Rooms"))

	step := newTestStep("NeedsRooms", []Requirement{Require[*roomTally]("Rooms")}, nil)
	assert.NoError(t, CheckRequirements(step, ctx))

	// The requirement is polymorphic: an interface requirement is satisfied
	// by any assignable component.
	ifaceStep := newTestStep("NeedsSized", []Requirement{Require[sized]("Rooms")}, nil)
	assert.NoError(t, CheckRequirements(ifaceStep, ctx))

	missing := newTestStep("NeedsTunnels", []Requirement{Require[*roomTally]("Tunnels")}, nil)
	err = CheckRequirements(missing, ctx)
	var mc *MissingComponentError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "NeedsTunnels", mc.Step)
	assert.Equal(t, "Tunnels", mc.Tag)
	assert.Contains(t, err.Error(), "Tunnels")
}

func TestCheckRequirementsAnyTag(t *testing.T) {
	ctx, err := NewContext(5, 5)
	require.NoError(t, err)

	step := newTestStep("NeedsAnyTally", []Requirement{RequireAny[*roomTally]()}, nil)
	require.Error(t, CheckRequirements(step, ctx))

	require.NoError(t, ctx.Add(&roomTally{}, "whatever"))
	assert.NoError(t, CheckRequirements(step, ctx))
}
