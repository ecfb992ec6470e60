package repository

import (
	"fmt"
	"time"
)

// timeToString formats a timestamp for SQLite storage.
func timeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseStoredTime parses an RFC3339 column value, mapping malformed
// values to ErrCorrupt so the caller can treat the record as absent.
func parseStoredTime(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", column, s, ErrCorrupt)
	}
	return t, nil
}
