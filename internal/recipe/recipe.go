// Package recipe loads map generation recipes from YAML. A recipe names an
// algorithm and pins its dimensions, seed and per-step parameters, so a map
// can be regenerated exactly from its recipe file.
package recipe

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mapforge/internal/gen"
	"git.home.luguber.info/inful/mapforge/internal/rng"
	"git.home.luguber.info/inful/mapforge/internal/steps"
)

// Algorithm names accepted in recipe files.
const (
	AlgorithmBasicRooms  = "basic-rooms"
	AlgorithmCaves       = "caves"
	AlgorithmDungeonMaze = "dungeon-maze"
)

// Recipe is a complete, reproducible map description.
type Recipe struct {
	Name      string `yaml:"name"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Algorithm string `yaml:"algorithm"`
	// Seed pins the random sequence; 0 means pick one from the wall clock at
	// load time so the chosen value still lands in the archive.
	Seed int64 `yaml:"seed,omitempty"`
	// MaxAttempts caps regeneration retries; 0 takes the engine default.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	Rooms    RoomsConfig    `yaml:"rooms,omitempty"`
	Automata AutomataConfig `yaml:"automata,omitempty"`
	Maze     MazeConfig     `yaml:"maze,omitempty"`
	Trim     TrimConfig     `yaml:"trim,omitempty"`
}

// RoomsConfig mirrors steps.RoomsParams in YAML form.
type RoomsConfig struct {
	MinRooms          int `yaml:"min_rooms,omitempty"`
	MaxRooms          int `yaml:"max_rooms,omitempty"`
	MinSize           int `yaml:"min_size,omitempty"`
	MaxSize           int `yaml:"max_size,omitempty"`
	PlacementAttempts int `yaml:"placement_attempts,omitempty"`
}

// AutomataConfig mirrors steps.AutomataParams in YAML form.
type AutomataConfig struct {
	FillPercent     int `yaml:"fill_percent,omitempty"`
	SmoothingPasses int `yaml:"smoothing_passes,omitempty"`
	MinAreaSize     int `yaml:"min_area_size,omitempty"`
}

// MazeConfig mirrors steps.MazeParams in YAML form.
type MazeConfig struct {
	CrawlerBatch int `yaml:"crawler_batch,omitempty"`
}

// TrimConfig mirrors steps.TrimParams in YAML form.
type TrimConfig struct {
	MaxPasses  int `yaml:"max_passes,omitempty"`
	KeepChance int `yaml:"keep_chance,omitempty"`
}

// Load reads and validates a recipe file. Environment variables referenced in
// the YAML (${VAR} or $VAR) are expanded first; a .env file next to the
// working directory is honored when present.
func Load(path string) (*Recipe, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var r Recipe
	if err := yaml.Unmarshal([]byte(expanded), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	r.applyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Recipe) applyDefaults() {
	if r.Name == "" {
		r.Name = "unnamed"
	}
	if r.Width == 0 {
		r.Width = 80
	}
	if r.Height == 0 {
		r.Height = 50
	}
	if r.Algorithm == "" {
		r.Algorithm = AlgorithmDungeonMaze
	}
	if r.Seed == 0 {
		r.Seed = time.Now().UnixNano()
	}
}

// Validate rejects recipes the engine would refuse or misinterpret.
func (r *Recipe) Validate() error {
	if r.Width < 3 || r.Height < 3 {
		return fmt.Errorf("recipe %q: map must be at least 3x3, got %dx%d", r.Name, r.Width, r.Height)
	}
	switch r.Algorithm {
	case AlgorithmBasicRooms, AlgorithmCaves, AlgorithmDungeonMaze:
	default:
		return fmt.Errorf("recipe %q: unknown algorithm %q", r.Name, r.Algorithm)
	}
	if r.MaxAttempts < 0 {
		return fmt.Errorf("recipe %q: max_attempts must not be negative", r.Name)
	}
	// Step parameter validation happens when the steps are constructed; build
	// them once here so a bad recipe fails at load time, not mid-run.
	if _, err := r.buildSteps(); err != nil {
		return fmt.Errorf("recipe %q: %w", r.Name, err)
	}
	return nil
}

func (r *Recipe) params() steps.AlgorithmParams {
	return steps.AlgorithmParams{
		Rooms: steps.RoomsParams{
			MinRooms:          r.Rooms.MinRooms,
			MaxRooms:          r.Rooms.MaxRooms,
			MinSize:           r.Rooms.MinSize,
			MaxSize:           r.Rooms.MaxSize,
			PlacementAttempts: r.Rooms.PlacementAttempts,
		},
		Automata: steps.AutomataParams{
			FillPercent:     r.Automata.FillPercent,
			SmoothingPasses: r.Automata.SmoothingPasses,
			MinAreaSize:     r.Automata.MinAreaSize,
		},
		Maze: steps.MazeParams{CrawlerBatch: r.Maze.CrawlerBatch},
		Trim: steps.TrimParams{MaxPasses: r.Trim.MaxPasses, KeepChance: r.Trim.KeepChance},
	}
}

func (r *Recipe) buildSteps() ([]gen.Step, error) {
	switch r.Algorithm {
	case AlgorithmBasicRooms:
		return steps.BasicRooms(r.params())
	case AlgorithmCaves:
		return steps.CellularAutomataAreas(r.params())
	case AlgorithmDungeonMaze:
		return steps.DungeonMaze(r.params())
	default:
		return nil, fmt.Errorf("unknown algorithm %q", r.Algorithm)
	}
}

// Configure returns the generator configuration for this recipe. Each attempt
// gets a fresh step list and an RNG derived from the recipe seed plus the
// attempt number, so retries explore new layouts while the whole run stays
// reproducible from the seed.
func (r *Recipe) Configure() gen.ConfigureFunc {
	return func(g *gen.Generator) error {
		seed := r.Seed + int64(g.Attempt()-1)
		if err := g.Context().Add(rng.New(seed), steps.TagRNG); err != nil {
			return err
		}
		built, err := r.buildSteps()
		if err != nil {
			return err
		}
		return g.AddSteps(built...)
	}
}

// Generator builds a generator sized and capped per the recipe.
func (r *Recipe) Generator(opts ...gen.Option) (*gen.Generator, error) {
	if r.MaxAttempts > 0 {
		opts = append([]gen.Option{gen.WithMaxAttempts(r.MaxAttempts)}, opts...)
	}
	return gen.New(r.Width, r.Height, opts...)
}

// Init writes a starter recipe file with the default dungeon parameters.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("recipe file already exists: %s (use --force to overwrite)", path)
	}

	example := Recipe{
		Name:      "example-dungeon",
		Width:     80,
		Height:    50,
		Algorithm: AlgorithmDungeonMaze,
		Seed:      1,
		Rooms:     RoomsConfig{MinRooms: 6, MaxRooms: 12, MinSize: 4, MaxSize: 9},
		Trim:      TrimConfig{MaxPasses: 5, KeepChance: 20},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}
