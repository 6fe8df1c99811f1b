package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/queuectl/queuectl/internal/model"
)

// RegisterWorker records a freshly spawned worker process in the registry
// table that the Supervisor owns.
func (s *Store) RegisterWorker(ctx context.Context, workerID string, pid int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO workers (worker_id, os_pid, started_at) VALUES (?, ?, ?)
		ON CONFLICT(worker_id) DO UPDATE SET os_pid = excluded.os_pid, started_at = excluded.started_at
	`, workerID, pid, formatTime(time.Now()))
	return errors.Wrap(err, "register worker")
}

func (s *Store) UnregisterWorker(ctx context.Context, workerID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM workers WHERE worker_id = ?`, workerID)
	return errors.Wrap(err, "unregister worker")
}

func (s *Store) ClearRegistry(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM workers`)
	return errors.Wrap(err, "clear worker registry")
}

// ListWorkers returns the registry contents, oldest first.
func (s *Store) ListWorkers(ctx context.Context) ([]model.WorkerRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT worker_id, os_pid, started_at FROM workers ORDER BY started_at ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list workers")
	}
	defer rows.Close()

	var out []model.WorkerRecord
	for rows.Next() {
		var rec model.WorkerRecord
		var startedAt string
		if err := rows.Scan(&rec.WorkerID, &rec.OSPID, &startedAt); err != nil {
			return nil, err
		}
		rec.StartedAt = parseTime(startedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
