package domain

import "time"

// Badge is a single earned reward. Immutable once created: every point a
// session earns is accompanied by exactly one badge, minted together.
type Badge struct {
	ID       string
	Emoji    string
	Category BadgeCategory
	EarnedAt time.Time
}
