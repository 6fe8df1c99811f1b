// Package store owns the durable job repository: schema, state
// transitions, the atomic claim protocol, and the read-only metrics/list
// queries the CLI renders.
package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// Store is a handle over a single SQLite file. It carries no other global
// state — callers construct one per process (or per test) and pass it
// explicitly into the Worker and Supervisor.
type Store struct {
	DB  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if necessary) the queue database at path and runs
// migrations. It does not recover orphaned claims: every command and every
// pool worker opens a Store, and recovery must run exactly once per pool
// lifetime, not once per opener. Call RecoverOrphans explicitly from the
// one place that owns that responsibility (the Supervisor, before it
// spawns a pool).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}

	// A single-writer file store needs WAL for workers to poll/read while
	// another worker holds the claim transaction.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return nil, errors.Wrap(err, "enable WAL")
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
		return nil, errors.Wrap(err, "set busy_timeout")
	}

	if err := runMigrations(db); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}

	return &Store{DB: db, log: log.Logger}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func runMigrations(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS jobs (
  id           TEXT PRIMARY KEY,
  command      TEXT NOT NULL,
  state        TEXT NOT NULL CHECK (state IN ('pending','processing','completed','failed','dead')),
  priority     INTEGER NOT NULL DEFAULT 2 CHECK (priority IN (1,2,3)),
  attempts     INTEGER NOT NULL DEFAULT 0,
  max_retries  INTEGER NOT NULL DEFAULT 3,
  run_at       TEXT NOT NULL,
  created_at   TEXT NOT NULL,
  updated_at   TEXT NOT NULL,
  started_at   TEXT,
  finished_at  TEXT,
  worker_id    TEXT,
  exit_code    INTEGER,
  stdout       TEXT NOT NULL DEFAULT '',
  stderr       TEXT NOT NULL DEFAULT '',
  error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_jobs_claim ON jobs(state, run_at, priority, created_at);
CREATE INDEX IF NOT EXISTS idx_jobs_state ON jobs(state);

CREATE TABLE IF NOT EXISTS config (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workers (
  worker_id  TEXT PRIMARY KEY,
  os_pid     INTEGER NOT NULL,
  started_at TEXT NOT NULL
);

INSERT OR IGNORE INTO config(key,value) VALUES ('max-retries','3');
INSERT OR IGNORE INTO config(key,value) VALUES ('backoff-base','2');
INSERT OR IGNORE INTO config(key,value) VALUES ('job-timeout','300');
`
	_, err := db.Exec(schema)
	return err
}

// RecoverOrphans resets any row left in "processing" to "pending" — it was
// left there by a worker that died without writing an outcome. Attempts is
// preserved; this is what gives the system at-least-once completion across
// crashes. Callers must ensure no worker pool is currently running claims
// against this database when this is called, or a live claim will be
// reset out from under its worker.
func (s *Store) RecoverOrphans(ctx context.Context) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'pending', worker_id = NULL, started_at = NULL, updated_at = ?
		WHERE state = 'processing'
	`, nowString())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.log.Warn().Int64("count", n).Msg("recovered orphaned jobs from processing state")
	}
	return nil
}
