// Package archive persists generated maps in SQLite so runs can be listed,
// inspected and reproduced later from their recipe and seed.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record matches the requested ID.
var ErrNotFound = errors.New("map record not found")

// Record is one archived generation run. Cells holds the rendered walkability
// grid, one row per line.
type Record struct {
	ID        string
	Recipe    string
	Algorithm string
	Seed      int64
	Width     int
	Height    int
	Attempts  int
	Duration  time.Duration
	CreatedAt time.Time
	Cells     string
}

// Store is a SQLite-backed map archive. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and if needed creates) the archive at dbPath.
// Use ":memory:" for an in-memory archive.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		id TEXT PRIMARY KEY,
		recipe TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		cells TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_maps_recipe ON maps(recipe);
	CREATE INDEX IF NOT EXISTS idx_maps_created_at ON maps(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores rec, assigning it a fresh ID and timestamp, and returns the ID.
func (s *Store) Save(ctx context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO maps (id, recipe, algorithm, seed, width, height, attempts, duration_ms, created_at, cells)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Recipe, rec.Algorithm, rec.Seed, rec.Width, rec.Height,
		rec.Attempts, rec.Duration.Milliseconds(), rec.CreatedAt.Unix(), rec.Cells,
	)
	if err != nil {
		return "", fmt.Errorf("insert map record: %w", err)
	}
	return rec.ID, nil
}

// Get retrieves one record by ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, recipe, algorithm, seed, width, height, attempts, duration_ms, created_at, cells
		 FROM maps WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns the newest records first, at most limit of them (0 = all).
// Cells are omitted to keep listings light.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, recipe, algorithm, seed, width, height, attempts, duration_ms, created_at, ''
		 FROM maps ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query map records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune deletes records created before cutoff, returning how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM maps WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune map records: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var durationMS, createdUnix int64
	err := row.Scan(&rec.ID, &rec.Recipe, &rec.Algorithm, &rec.Seed,
		&rec.Width, &rec.Height, &rec.Attempts, &durationMS, &createdUnix, &rec.Cells)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan map record: %w", err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt = time.Unix(createdUnix, 0)
	return rec, nil
}
