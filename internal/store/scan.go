package store

import (
	"database/sql"

	"github.com/queuectl/queuectl/internal/model"
)

// jobColumns/scanJob centralize the jobs table's column list so Claim,
// Get, List, and ListDLQ all read the same shape instead of drifting.
const jobColumns = `
	id, command, state, priority, attempts, max_retries,
	run_at, created_at, updated_at, started_at, finished_at,
	worker_id, exit_code, stdout, stderr, error
`

type jobRow interface {
	Scan(dest ...any) error
}

func scanJob(row jobRow) (*model.Job, error) {
	var j model.Job
	var runAt, createdAt, updatedAt string
	var startedAt, finishedAt, workerID sql.NullString
	var exitCode sql.NullInt64

	err := row.Scan(
		&j.ID, &j.Command, &j.State, &j.Priority, &j.Attempts, &j.MaxRetries,
		&runAt, &createdAt, &updatedAt, &startedAt, &finishedAt,
		&workerID, &exitCode, &j.Stdout, &j.Stderr, &j.Error,
	)
	if err != nil {
		return nil, err
	}

	j.RunAt = parseTime(runAt)
	j.CreatedAt = parseTime(createdAt)
	j.UpdatedAt = parseTime(updatedAt)
	if startedAt.Valid {
		j.StartedAt = parseNullTime(&startedAt.String)
	}
	if finishedAt.Valid {
		j.FinishedAt = parseNullTime(&finishedAt.String)
	}
	if workerID.Valid {
		j.WorkerID = workerID.String
	}
	if exitCode.Valid {
		v := int(exitCode.Int64)
		j.ExitCode = &v
	}
	return &j, nil
}
