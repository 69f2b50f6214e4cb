package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/outbreak-xyz/go-outbreak/results"
)

// SQLiteStore archives runs in a SQLite database. The full document is
// stored as JSON alongside indexed summary columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:"
// for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created DATETIME NOT NULL,
		r0 REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT '',
		solver TEXT NOT NULL DEFAULT '',
		final_day REAL NOT NULL DEFAULT 0,
		document TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, r *results.Results) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	sum := summarize(r)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, created, r0, status, solver, final_day, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, created = excluded.created,
		   r0 = excluded.r0, status = excluded.status,
		   solver = excluded.solver, final_day = excluded.final_day,
		   document = excluded.document`,
		sum.ID, sum.Name, sum.Created.UTC(), sum.R0, sum.Status, sum.Solver, sum.FinalDay, string(doc),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*results.Results, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM runs WHERE id = ?`, id,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	var r results.Results
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created, r0, status, solver, final_day
		 FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var sum RunSummary
		var created time.Time
		if err := rows.Scan(&sum.ID, &sum.Name, &created, &sum.R0, &sum.Status, &sum.Solver, &sum.FinalDay); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.Created = created
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
