// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a local SQLite history of refresh and merge runs,
// including the raw papers each run fetched, so a run can be inspected or
// replayed without calling the API again.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/papersync/pkg/types"
)

// Mode identifies the command that produced a run.
type Mode string

const (
	ModeRefresh Mode = "refresh"
	ModeMerge   Mode = "merge"
)

// ErrRunNotFound is returned by Papers for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded invocation.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Mode      Mode      `json:"mode" yaml:"mode"`
	AuthorIDs []string  `json:"author_ids" yaml:"author_ids"`
	Fetched   int       `json:"fetched" yaml:"fetched"`
	Added     int       `json:"added" yaml:"added"`
	Total     int       `json:"total" yaml:"total"`
}

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			author_ids TEXT,
			fetched INTEGER NOT NULL DEFAULT 0,
			added INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS fetched_papers (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT,
			raw TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetched_papers_title ON fetched_papers(title)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and the raw papers it fetched in one transaction and
// returns the new run id.
func (s *Store) Record(ctx context.Context, run Run, papers []types.RawPaper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	idsJSON, _ := json.Marshal(run.AuthorIDs)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, mode, author_ids, fetched, added, total) VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), string(run.Mode), string(idsJSON),
		run.Fetched, run.Added, run.Total,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fetched_papers (run_id, position, title, raw) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		raw, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("encoding paper %q: %w", p.Title, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, p.Title, string(raw)); err != nil {
			return 0, fmt.Errorf("inserting paper %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs returns up to limit runs, most recent first. limit <= 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, mode, author_ids, fetched, added, total FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt, mode string
		var ids sql.NullString
		if err := rows.Scan(&r.ID, &startedAt, &mode, &ids, &r.Fetched, &r.Added, &r.Total); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Mode = Mode(mode)
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			r.StartedAt = t
		}
		if ids.Valid && ids.String != "" {
			json.Unmarshal([]byte(ids.String), &r.AuthorIDs)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Papers returns the raw papers recorded for runID in fetch order.
func (s *Store) Papers(ctx context.Context, runID int64) ([]types.RawPaper, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT raw FROM fetched_papers WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.RawPaper
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		var p types.RawPaper
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decoding paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
