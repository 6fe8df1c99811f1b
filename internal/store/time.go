package store

import "time"

// Timestamps are stored as local-time RFC3339Nano text.

func nowString() string {
	return formatTime(time.Now())
}

func nowMinus24h() time.Time {
	return time.Now().Add(-24 * time.Hour)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.ParseInLocation(time.RFC3339Nano, s, time.Local)
	return t
}

func parseNullTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	return &t
}
