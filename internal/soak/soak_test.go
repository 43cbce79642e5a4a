package soak

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mapforge/internal/recipe"
)

func TestRunCountsSuccessfulRuns(t *testing.T) {
	rec := &recipe.Recipe{
		Name: "soak", Width: 31, Height: 21,
		Algorithm: recipe.AlgorithmDungeonMaze, Seed: 77,
	}
	require.NoError(t, rec.Validate())

	res, err := Run(context.Background(), rec, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Runs)
	assert.Zero(t, res.Failures)
	assert.GreaterOrEqual(t, res.TotalAttempts, 8)
	assert.GreaterOrEqual(t, res.MaxAttempts, 1)
	assert.Greater(t, res.AverageAttempts(), 0.0)
	assert.Greater(t, res.Elapsed.Nanoseconds(), int64(0))
}

func TestRunCountsFailuresWithoutAborting(t *testing.T) {
	// Impossible recipe: the map cannot hold the demanded rooms, so every run
	// exhausts its attempts.
	rec := &recipe.Recipe{
		Name: "doomed", Width: 9, Height: 9,
		Algorithm: recipe.AlgorithmBasicRooms, Seed: 1, MaxAttempts: 2,
		Rooms: recipe.RoomsConfig{MinRooms: 8, MaxRooms: 8},
	}
	require.NoError(t, rec.Validate())

	res, err := Run(context.Background(), rec, 4, 2)
	require.NoError(t, err, "generation failures must not abort the campaign")
	assert.Equal(t, 4, res.Failures)
	assert.Equal(t, 2, res.MaxAttempts)
	assert.Equal(t, 8, res.TotalAttempts)
}

func TestRunHonorsCancellation(t *testing.T) {
	rec := &recipe.Recipe{
		Name: "canceled", Width: 31, Height: 21,
		Algorithm: recipe.AlgorithmDungeonMaze, Seed: 3,
	}
	require.NoError(t, rec.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, rec, 100, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
