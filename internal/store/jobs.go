package store

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/queuectl/queuectl/internal/model"
)

// Enqueue validates and inserts a new job, returning its assigned id.
func (s *Store) Enqueue(ctx context.Context, command string, priority int, runAt *time.Time) (string, error) {
	if command == "" {
		return "", errors.New("command must not be empty")
	}
	if priority == 0 {
		priority = model.PriorityNormal
	}
	if !model.ValidPriority(priority) {
		return "", errors.Errorf("invalid priority %d (must be 1, 2, or 3)", priority)
	}

	now := time.Now()
	effectiveRunAt := now
	if runAt != nil {
		effectiveRunAt = *runAt
	}

	id := uuid.NewString()
	maxRetries := s.maxRetries(ctx)

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO jobs (id, command, state, priority, attempts, max_retries, run_at, created_at, updated_at)
		VALUES (?, ?, 'pending', ?, 0, ?, ?, ?, ?)
	`, id, command, priority, maxRetries,
		formatTime(effectiveRunAt), formatTime(now), formatTime(now),
	)
	if err != nil {
		return "", errors.Wrap(err, "enqueue")
	}
	return id, nil
}

// ClaimOne atomically selects the single highest-priority eligible job and
// transitions it to "processing". Eligibility: state=pending AND
// run_at<=now, ordered by (priority ASC, run_at ASC, created_at ASC).
//
// The select-then-conditional-update happens inside one serializable
// transaction: a second worker racing on the same row will see 0 rows
// affected by its own UPDATE and return (nil, nil), never the same job a
// winner already claimed.
func (s *Store) ClaimOne(ctx context.Context, workerID string) (*model.Job, error) {
	now := time.Now()

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, errors.Wrap(err, "begin claim tx")
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM jobs
		WHERE state = 'pending' AND run_at <= ?
		ORDER BY priority ASC, run_at ASC, created_at ASC
		LIMIT 1
	`, formatTime(now)).Scan(&id)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select eligible job")
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'processing', worker_id = ?, started_at = ?, updated_at = ?
		WHERE id = ? AND state = 'pending'
	`, workerID, formatTime(now), formatTime(now), id)
	if err != nil {
		return nil, errors.Wrap(err, "claim update")
	}

	rows, _ := res.RowsAffected()
	if rows != 1 {
		// Lost the race to another worker between the SELECT and UPDATE.
		return nil, nil
	}

	job, err := scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err != nil {
		return nil, errors.Wrap(err, "reload claimed job")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit claim")
	}
	return job, nil
}

// Complete records a successful execution. Requires the job to currently
// be "processing".
func (s *Store) Complete(ctx context.Context, id, stdout, stderr string) error {
	now := time.Now()
	zero := 0
	res, err := s.DB.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'completed', finished_at = ?, updated_at = ?,
		    exit_code = ?, stdout = ?, stderr = ?, worker_id = NULL
		WHERE id = ? AND state = 'processing'
	`, formatTime(now), formatTime(now), zero, stdout, stderr, id)
	if err != nil {
		return errors.Wrap(err, "complete job")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.Errorf("job %s is not processing", id)
	}
	return nil
}

// Fail records a failed execution attempt and decides whether the job
// retries (with exponential backoff) or moves to the dead letter state.
// max-retries and backoff-base are both read live from config.
func (s *Store) Fail(ctx context.Context, id string, exitCode int, stdout, stderr, execErr string) (model.FailOutcome, error) {
	now := time.Now()

	var attempts int
	err := s.DB.QueryRowContext(ctx, `SELECT attempts FROM jobs WHERE id = ? AND state = 'processing'`, id).
		Scan(&attempts)
	if err == sql.ErrNoRows {
		return "", errors.Errorf("job %s is not processing", id)
	}
	if err != nil {
		return "", errors.Wrap(err, "load job for fail")
	}

	attempts++
	// max-retries is read live, not from the job's insert-time snapshot: an
	// operator setting max-retries=0 to disable retries entirely must take
	// effect immediately, even for jobs already in flight.
	maxRetries := s.maxRetries(ctx)

	if attempts > maxRetries {
		_, err := s.DB.ExecContext(ctx, `
			UPDATE jobs
			SET state = 'dead', attempts = ?, finished_at = ?, updated_at = ?,
			    exit_code = ?, stdout = ?, stderr = ?, error = ?, worker_id = NULL
			WHERE id = ? AND state = 'processing'
		`, attempts, formatTime(now), formatTime(now), exitCode, stdout, stderr, execErr, id)
		if err != nil {
			return "", errors.Wrap(err, "move job to dead")
		}
		return model.OutcomeDead, nil
	}

	base := s.backoffBase(ctx)
	delay := time.Duration(math.Pow(float64(base), float64(attempts))) * time.Second
	runAt := now.Add(delay)

	_, err = s.DB.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'pending', attempts = ?, run_at = ?, updated_at = ?,
		    started_at = NULL, worker_id = NULL,
		    exit_code = ?, stdout = ?, stderr = ?, error = ?
		WHERE id = ? AND state = 'processing'
	`, attempts, formatTime(runAt), formatTime(now), exitCode, stdout, stderr, execErr, id)
	if err != nil {
		return "", errors.Wrap(err, "schedule retry")
	}
	return model.OutcomeRetryScheduled, nil
}
