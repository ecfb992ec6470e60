package service

import (
	"context"
	"time"

	"github.com/alexanderramin/grove/internal/domain"
)

// SessionController is the focus-session state machine. All mutation of
// the active session goes through it; the presentation layer observes
// via Snapshot/Status and drives it via Start/Stop/Suspend/Resume.
// Restore re-adopts a persisted session after a process restart.
type SessionController interface {
	// Start begins a new session in the given mode. If a session is
	// already active it is stopped and committed first, so at most one
	// session is ever active.
	Start(ctx context.Context, mode domain.FocusMode) error

	// Stop freezes the active session after a final reconciliation
	// pass, commits it to the profile and returns the frozen session.
	// Returns nil when idle.
	Stop(ctx context.Context) (*domain.Session, error)

	// Suspend halts live ticking but keeps the session persisted.
	// Reminders stay scheduled so the user can still be notified.
	Suspend(ctx context.Context) error

	// Resume reconciles awards accrued while suspended and restarts
	// live ticking.
	Resume(ctx context.Context) error

	// Restore loads a persisted active session after a process restart.
	// Sessions older than the staleness ceiling are discarded silently.
	// Reports whether a session was adopted.
	Restore(ctx context.Context) (bool, error)

	// Snapshot returns a read-only view of the in-memory state.
	Snapshot() Snapshot

	// Status inspects the persisted active session without adopting or
	// mutating it, for display from a process that does not own the
	// session. Returns nil when no session is persisted.
	Status(ctx context.Context) (*StatusInfo, error)

	// SetAwardListener registers the presentation callback invoked when
	// live ticking mints new awards. Pass nil to unregister. The
	// listener is only called from the live tick path, never from
	// resume or restore reconciliation.
	SetAwardListener(fn AwardListener)

	// Close cancels the live ticker, if any, without touching state.
	Close()
}

// AwardListener receives freshly minted badges from the live tick path.
type AwardListener func(minted []domain.Badge, totalPoints int)

// Snapshot is the read-only presentation view of the controller state.
type Snapshot struct {
	Active    bool
	Suspended bool
	Mode      domain.FocusMode
	Elapsed   time.Duration
	Points    int
	Session   *domain.Session
}

// StatusInfo describes a persisted active session as seen from outside
// the owning process. PendingAwards is how many awards reconciliation
// would mint right now.
type StatusInfo struct {
	Session       *domain.Session
	Elapsed       time.Duration
	PendingAwards int
}

// ProfileService owns the long-lived user profile. Single-writer: the
// controller and CLI delegate all profile writes here.
type ProfileService interface {
	// Commit folds a frozen session into the profile and clears the
	// persisted active-session record, atomically.
	Commit(ctx context.Context, s *domain.Session) error

	// UpdateIdentity replaces the mutable identity fields.
	UpdateIdentity(ctx context.Context, name string, avatar []byte) error

	// Get returns the profile, or a fresh empty profile before first
	// save (absence and corruption are not errors).
	Get(ctx context.Context) (*domain.UserProfile, error)
}

// ReminderScheduler schedules future point-earned notifications while
// the session is not being actively observed. Failures are non-fatal;
// the controller never blocks on scheduling.
type ReminderScheduler interface {
	ScheduleUpcoming(mode domain.FocusMode, fireTimes []time.Time) error
	CancelAll() error
}
