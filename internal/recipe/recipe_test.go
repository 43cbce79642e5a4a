package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/grid"
	"git.home.luguber.info/inful/mapforge/internal/steps"
)

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	r, err := Load(writeRecipe(t, "name: test\n"))
	require.NoError(t, err)
	assert.Equal(t, 80, r.Width)
	assert.Equal(t, 50, r.Height)
	assert.Equal(t, AlgorithmDungeonMaze, r.Algorithm)
	assert.NotZero(t, r.Seed, "unset seed must be filled in at load time")
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("MAPFORGE_TEST_ALGO", AlgorithmCaves)
	r, err := Load(writeRecipe(t, "algorithm: ${MAPFORGE_TEST_ALGO}\nseed: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, AlgorithmCaves, r.Algorithm)
}

func TestLoadRejectsBadRecipes(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"missing file read", "", ""},
		{"unknown algorithm", "algorithm: teleporter\n", "unknown algorithm"},
		{"too small", "width: 2\nheight: 40\n", "at least 3x3"},
		{"negative attempts", "max_attempts: -1\n", "max_attempts"},
		{"bad step params", "rooms: {min_size: 2}\n", "MinSize"},
		{"malformed yaml", "width: [\n", "unmarshal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRecipe(t, tc.content)
			if tc.content == "" {
				path = filepath.Join(t.TempDir(), "missing.yaml")
			}
			_, err := Load(path)
			require.Error(t, err)
			if tc.want != "" {
				assert.Contains(t, err.Error(), tc.want)
			}
		})
	}
}

func TestInitWritesLoadableRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, Init(path, false))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example-dungeon", r.Name)

	err = Init(path, false)
	require.Error(t, err, "existing file must not be overwritten without force")
	assert.Contains(t, err.Error(), "--force")
	require.NoError(t, Init(path, true))
}

func TestConfigureIsReproducibleFromSeed(t *testing.T) {
	run := func() []bool {
		r := &Recipe{Name: "repro", Width: 41, Height: 31, Algorithm: AlgorithmDungeonMaze, Seed: 1234}
		require.NoError(t, r.Validate())

		g, err := r.Generator()
		require.NoError(t, err)
		require.NoError(t, g.GenerateSafe(r.Configure()))

		walls, ok := gen.First[*grid.Grid[bool]](g.Context().Store, steps.TagWallFloor)
		require.True(t, ok)
		assert.Len(t, grid.Regions(walls, true), 1)
		return append([]bool(nil), walls.Cells()...)
	}
	assert.Equal(t, run(), run())
}

func TestGeneratorHonorsMaxAttempts(t *testing.T) {
	// A map this cramped cannot fit the demanded rooms, so every attempt
	// regenerates until the cap trips.
	r := &Recipe{
		Name: "cramped", Width: 9, Height: 9,
		Algorithm: AlgorithmBasicRooms, Seed: 5, MaxAttempts: 3,
		Rooms: RoomsConfig{MinRooms: 8, MaxRooms: 8},
	}
	require.NoError(t, r.Validate())

	g, err := r.Generator()
	require.NoError(t, err)
	err = g.GenerateSafe(r.Configure())
	require.Error(t, err)
	assert.ErrorIs(t, err, gen.ErrRetryLimitExceeded)
	assert.Equal(t, 3, g.Attempt())
}
