package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/grove/internal/db"
	"github.com/alexanderramin/grove/internal/domain"
)

const profileID = "default"

// SQLiteSessionStore implements SessionStore using a SQLite database.
type SQLiteSessionStore struct {
	db db.DBTX
}

// NewSQLiteSessionStore creates a new SQLiteSessionStore. Accepts a DBTX
// so the same store type works inside a unit-of-work transaction.
func NewSQLiteSessionStore(conn db.DBTX) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: conn}
}

func (r *SQLiteSessionStore) LoadActiveSession(ctx context.Context) (*domain.Session, error) {
	query := `SELECT id, mode, start_time, points FROM active_session WHERE singleton = 1`
	row := r.db.QueryRowContext(ctx, query)

	var s domain.Session
	var mode, startStr string
	err := row.Scan(&s.ID, &mode, &startStr, &s.Points)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("active session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning active session: %w", err)
	}

	m, ok := domain.ParseFocusMode(mode)
	if !ok {
		return nil, fmt.Errorf("active session mode %q: %w", mode, ErrCorrupt)
	}
	s.Mode = m
	s.StartTime, err = parseStoredTime("start_time", startStr)
	if err != nil {
		return nil, err
	}

	s.Badges, err = r.loadActiveBadges(ctx)
	if err != nil {
		return nil, err
	}
	if len(s.Badges) != s.Points {
		return nil, fmt.Errorf("active session has %d badges for %d points: %w",
			len(s.Badges), s.Points, ErrCorrupt)
	}
	return &s, nil
}

func (r *SQLiteSessionStore) loadActiveBadges(ctx context.Context) ([]domain.Badge, error) {
	query := `SELECT id, emoji, category, earned_at FROM active_session_badges ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active session badges: %w", err)
	}
	defer rows.Close()
	return scanBadges(rows)
}

func (r *SQLiteSessionStore) SaveActiveSession(ctx context.Context, s *domain.Session) error {
	query := `INSERT OR REPLACE INTO active_session (singleton, id, mode, start_time, points)
		VALUES (1, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, s.ID, string(s.Mode), timeToString(s.StartTime), s.Points)
	if err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}

	// Badges are append-only and few; rewrite the set rather than diff it.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_session_badges`); err != nil {
		return fmt.Errorf("clearing active session badges: %w", err)
	}
	for i, b := range s.Badges {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO active_session_badges (id, seq, emoji, category, earned_at) VALUES (?, ?, ?, ?, ?)`,
			b.ID, i, b.Emoji, string(b.Category), timeToString(b.EarnedAt))
		if err != nil {
			return fmt.Errorf("saving active session badge %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteSessionStore) ClearActiveSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_session_badges`); err != nil {
		return fmt.Errorf("clearing active session badges: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_session`); err != nil {
		return fmt.Errorf("clearing active session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionStore) LoadProfile(ctx context.Context) (*domain.UserProfile, error) {
	query := `SELECT name, avatar, total_points FROM user_profile WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, profileID)

	var p domain.UserProfile
	var avatar []byte
	err := row.Scan(&p.Name, &avatar, &p.TotalPoints)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	p.Avatar = avatar

	p.Sessions, err = r.loadCompletedSessions(ctx)
	if err != nil {
		return nil, err
	}
	// The cumulative badge collection is the session badges in
	// completion order.
	for _, s := range p.Sessions {
		p.Badges = append(p.Badges, s.Badges...)
	}
	return &p, nil
}

func (r *SQLiteSessionStore) loadCompletedSessions(ctx context.Context) ([]*domain.Session, error) {
	query := `SELECT id, mode, start_time, end_time, points FROM sessions ORDER BY completed_seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		var s domain.Session
		var mode, startStr, endStr string
		if err := rows.Scan(&s.ID, &mode, &startStr, &endStr, &s.Points); err != nil {
			return nil, fmt.Errorf("scanning completed session: %w", err)
		}
		m, ok := domain.ParseFocusMode(mode)
		if !ok {
			return nil, fmt.Errorf("session %s mode %q: %w", s.ID, mode, ErrCorrupt)
		}
		s.Mode = m
		if s.StartTime, err = parseStoredTime("start_time", startStr); err != nil {
			return nil, err
		}
		end, err := parseStoredTime("end_time", endStr)
		if err != nil {
			return nil, err
		}
		s.EndTime = &end
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed sessions: %w", err)
	}

	for _, s := range sessions {
		if s.Badges, err = r.loadSessionBadges(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (r *SQLiteSessionStore) loadSessionBadges(ctx context.Context, sessionID string) ([]domain.Badge, error) {
	query := `SELECT id, emoji, category, earned_at FROM session_badges WHERE session_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing session badges: %w", err)
	}
	defer rows.Close()
	return scanBadges(rows)
}

func (r *SQLiteSessionStore) SaveProfile(ctx context.Context, p *domain.UserProfile) error {
	query := `INSERT OR REPLACE INTO user_profile (id, name, avatar, total_points) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, profileID, p.Name, p.Avatar, p.TotalPoints); err != nil {
		return fmt.Errorf("saving user profile: %w", err)
	}

	// Completed sessions are immutable, so re-upserting the whole
	// history is idempotent.
	for i, s := range p.Sessions {
		if s.EndTime == nil {
			return fmt.Errorf("profile session %s has no end time", s.ID)
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO sessions (id, completed_seq, mode, start_time, end_time, points)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, i, string(s.Mode), timeToString(s.StartTime), timeToString(*s.EndTime), s.Points)
		if err != nil {
			return fmt.Errorf("saving completed session %s: %w", s.ID, err)
		}
		for j, b := range s.Badges {
			_, err := r.db.ExecContext(ctx,
				`INSERT OR REPLACE INTO session_badges (id, session_id, seq, emoji, category, earned_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				b.ID, s.ID, j, b.Emoji, string(b.Category), timeToString(b.EarnedAt))
			if err != nil {
				return fmt.Errorf("saving badge %d of session %s: %w", j, s.ID, err)
			}
		}
	}
	return nil
}

// scanBadges scans badge rows in (id, emoji, category, earned_at) order.
func scanBadges(rows *sql.Rows) ([]domain.Badge, error) {
	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		var category, earnedStr string
		if err := rows.Scan(&b.ID, &b.Emoji, &category, &earnedStr); err != nil {
			return nil, fmt.Errorf("scanning badge row: %w", err)
		}
		b.Category = domain.BadgeCategory(category)
		earned, err := parseStoredTime("earned_at", earnedStr)
		if err != nil {
			return nil, err
		}
		b.EarnedAt = earned
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating badges: %w", err)
	}
	return badges, nil
}
