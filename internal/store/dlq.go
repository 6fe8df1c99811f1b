package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/queuectl/queuectl/internal/model"
)

// ListDLQ returns the jobs currently in the dead state. There is no
// separate DLQ table: "dead" is just another value of jobs.state, so the
// DLQ is a filtered view, not a second store.
func (s *Store) ListDLQ(ctx context.Context) ([]model.Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE state = 'dead'
		ORDER BY finished_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// RetryDLQ re-enters a dead job into pending, resetting attempts to 0 and
// clearing error fields.
func (s *Store) RetryDLQ(ctx context.Context, id string) error {
	now := time.Now()
	res, err := s.DB.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'pending', attempts = 0, run_at = ?, updated_at = ?,
		    started_at = NULL, finished_at = NULL, worker_id = NULL,
		    exit_code = NULL, stdout = '', stderr = '', error = ''
		WHERE id = ? AND state = 'dead'
	`, formatTime(now), formatTime(now), id)
	if err != nil {
		return errors.Wrap(err, "retry dlq job")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguish "doesn't exist" from "exists but not dead" for a
		// clearer CLI error message.
		var exists bool
		_ = s.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)`, id).Scan(&exists)
		if !exists {
			return errors.Errorf("job %s not found", id)
		}
		return errors.Errorf("job %s is not dead", id)
	}
	return nil
}
