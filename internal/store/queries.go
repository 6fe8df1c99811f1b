package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/queuectl/queuectl/internal/model"
)

// Get returns a single job by id.
func (s *Store) Get(ctx context.Context, id string) (*model.Job, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, errors.Errorf("job %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get job")
	}
	return j, nil
}

// List returns jobs, optionally filtered by state, newest first.
func (s *Store) List(ctx context.Context, stateFilter string) ([]model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs`
	var args []any
	if stateFilter != "" {
		q += ` WHERE state = ?`
		args = append(args, stateFilter)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	defer rows.Close()

	var result []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *j)
	}
	return result, rows.Err()
}

// Metrics is the aggregate the `metrics` CLI command renders: totals,
// per-state counts, success rate, average attempts, and last-24h activity.
type Metrics struct {
	Total          int
	ByState        map[string]int
	SuccessRate    float64
	AverageAttempt float64
	Last24h        int
}

func (s *Store) QueueStatus(ctx context.Context) (map[string]int, error) {
	return s.countsByState(ctx)
}

func (s *Store) countsByState(ctx context.Context) (map[string]int, error) {
	stats := map[string]int{
		model.StatePending:    0,
		model.StateProcessing: 0,
		model.StateCompleted:  0,
		model.StateFailed:     0,
		model.StateDead:       0,
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT state, COUNT(*) FROM jobs GROUP BY state`)
	if err != nil {
		return nil, errors.Wrap(err, "count by state")
	}
	defer rows.Close()
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		stats[st] = n
	}
	return stats, rows.Err()
}

func (s *Store) Metrics(ctx context.Context) (*Metrics, error) {
	byState, err := s.countsByState(ctx)
	if err != nil {
		return nil, err
	}

	m := &Metrics{ByState: byState}
	for _, n := range byState {
		m.Total += n
	}

	terminal := byState[model.StateCompleted] + byState[model.StateDead]
	if terminal > 0 {
		m.SuccessRate = float64(byState[model.StateCompleted]) / float64(terminal) * 100
	}

	var avgAttempts sql.NullFloat64
	if err := s.DB.QueryRowContext(ctx, `SELECT AVG(attempts) FROM jobs`).Scan(&avgAttempts); err != nil {
		return nil, errors.Wrap(err, "average attempts")
	}
	m.AverageAttempt = avgAttempts.Float64

	cutoff := formatTime(nowMinus24h())
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE updated_at >= ?`, cutoff).Scan(&m.Last24h); err != nil {
		return nil, errors.Wrap(err, "last 24h activity")
	}

	return m, nil
}
