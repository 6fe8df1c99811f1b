package store

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/queuectl/queuectl/internal/model"
)

// SetConfig upserts a config key. Keys are dash-cased exactly as the CLI's
// `config set <key> <value>` receives them.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`, key, value)
	return err
}

// GetConfig returns "" if the key has never been set.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var val string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM config WHERE key=?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

func (s *Store) AllConfig(ctx context.Context) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT key, value FROM config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

// configInt reads an integer config key live, falling back to defaultVal
// when unset or unparseable. It is read live rather than cached because
// Fail must always consult the current max-retries/backoff-base live.
func (s *Store) configInt(ctx context.Context, key string, defaultVal int) int {
	val, err := s.GetConfig(ctx, key)
	if err != nil || val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func (s *Store) maxRetries(ctx context.Context) int {
	return s.configInt(ctx, model.ConfigMaxRetries, model.DefaultMaxRetries)
}

func (s *Store) backoffBase(ctx context.Context) int {
	return s.configInt(ctx, model.ConfigBackoffBase, model.DefaultBackoffBase)
}

// JobTimeout exposes the live job-timeout setting (seconds) to the worker
// loop, which reads it fresh before every execution.
func (s *Store) JobTimeout(ctx context.Context) int {
	return s.configInt(ctx, model.ConfigJobTimeout, model.DefaultJobTimeout)
}
