package domain

import "time"

// Session is one focus-tracking run. At most one session is active
// (EndTime unset) at any time. Points and Badges move in lockstep:
// len(Badges) == Points always, and Points equals the number of whole
// award intervals elapsed since StartTime.
type Session struct {
	ID        string
	Mode      FocusMode
	StartTime time.Time
	EndTime   *time.Time
	Points    int
	Badges    []Badge
}

// Active reports whether the session has not been completed yet.
func (s *Session) Active() bool {
	return s.EndTime == nil
}

// Elapsed returns the wall-clock time since the session started,
// measured against now while running and against EndTime once stopped.
// Always computed as a delta, never accumulated tick by tick.
func (s *Session) Elapsed(now time.Time) time.Duration {
	ref := now
	if s.EndTime != nil {
		ref = *s.EndTime
	}
	d := ref.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Clone returns a deep copy, so callers holding a snapshot never observe
// later mutations by the controller.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	out.Badges = make([]Badge, len(s.Badges))
	copy(out.Badges, s.Badges)
	return &out
}
