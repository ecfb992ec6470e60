// Package clock abstracts wall-clock time so the session engine can be
// driven deterministically in tests.
package clock

import "time"

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// System is the production Clock, backed by time.Now in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}
