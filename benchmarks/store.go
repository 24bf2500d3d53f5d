package benchmarks

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RunStore records benchmark runs in a SQLite database so results can
// be compared across invocations.
type RunStore struct {
	db *sql.DB
}

// RunRecord is one benchmark invocation.
type RunRecord struct {
	ID            string
	Benchmark     string
	Seed          uint64
	StartedAt     time.Time
	FinishedAt    time.Time
	NumOperators  int
	NumInventions int
	Summary       string
}

func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	store := &RunStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate run store: %w", err)
	}
	return store, nil
}

func (s *RunStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		benchmark TEXT NOT NULL,
		seed INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		num_operators INTEGER DEFAULT 0,
		num_inventions INTEGER DEFAULT 0,
		summary TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_benchmark ON runs(benchmark, seed);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *RunStore) SaveRun(r RunRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, benchmark, seed, started_at, finished_at,
			num_operators, num_inventions, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Benchmark, r.Seed, r.StartedAt, r.FinishedAt,
		r.NumOperators, r.NumInventions, r.Summary)
	return err
}

// Runs returns all recorded runs of one benchmark, oldest first.
func (s *RunStore) Runs(benchmark string) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, benchmark, seed, started_at, finished_at,
			num_operators, num_inventions, summary
		 FROM runs WHERE benchmark = ? ORDER BY started_at`, benchmark)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RunRecord, 0)
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Benchmark, &r.Seed, &r.StartedAt,
			&r.FinishedAt, &r.NumOperators, &r.NumInventions, &r.Summary); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *RunStore) Close() error {
	return s.db.Close()
}
