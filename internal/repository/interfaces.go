package repository

import (
	"context"

	"github.com/alexanderramin/grove/internal/domain"
)

// SessionStore is the durable persistence port for the session engine.
// It holds at most one active session plus the user profile with its
// completed-session history. Implementations must survive process
// restarts; callers treat failures as best-effort, so a failed save
// never blocks a state transition.
type SessionStore interface {
	// LoadActiveSession returns the persisted active session, or
	// ErrNotFound when idle. A record that cannot be decoded returns
	// an error wrapping ErrCorrupt.
	LoadActiveSession(ctx context.Context) (*domain.Session, error)
	SaveActiveSession(ctx context.Context, s *domain.Session) error
	ClearActiveSession(ctx context.Context) error

	// LoadProfile returns the user profile with full history, or
	// ErrNotFound before the first save.
	LoadProfile(ctx context.Context) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, p *domain.UserProfile) error
}
