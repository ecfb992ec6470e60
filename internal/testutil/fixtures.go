package testutil

import (
	"time"

	"github.com/alexanderramin/grove/internal/domain"
	"github.com/google/uuid"
)

// BadgeOption mutates a test badge.
type BadgeOption func(*domain.Badge)

func WithCategory(c domain.BadgeCategory) BadgeOption {
	return func(b *domain.Badge) {
		b.Category = c
		b.Emoji = domain.Palettes[c][0]
	}
}

// NewTestBadge creates a badge earned at the given instant, defaulting
// to the trees category.
func NewTestBadge(earnedAt time.Time, opts ...BadgeOption) domain.Badge {
	b := domain.Badge{
		ID:       uuid.New().String(),
		Emoji:    domain.Palettes[domain.CategoryTrees][0],
		Category: domain.CategoryTrees,
		EarnedAt: earnedAt,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// NewTestCompletedSession creates a frozen session with one badge per
// point, started at start and lasting the given duration.
func NewTestCompletedSession(mode domain.FocusMode, start time.Time, duration time.Duration, points int) *domain.Session {
	end := start.Add(duration)
	s := &domain.Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		StartTime: start,
		EndTime:   &end,
		Points:    points,
	}
	for i := 0; i < points; i++ {
		s.Badges = append(s.Badges, NewTestBadge(start.Add(time.Duration(i+1)*time.Minute)))
	}
	return s
}
