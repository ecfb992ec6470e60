package domain

// UserProfile is the long-lived per-user record. Totals and collections
// are cumulative across all completed sessions, in completion order.
// Single-writer: only the profile aggregator mutates it.
type UserProfile struct {
	Name        string
	Avatar      []byte
	TotalPoints int
	Badges      []Badge
	Sessions    []*Session
}

// Absorb folds a frozen session into the profile: the session is appended
// to history, its points are added to the running total and its badges
// join the cumulative collection, preserving earn order.
func (p *UserProfile) Absorb(s *Session) {
	p.Sessions = append(p.Sessions, s)
	p.TotalPoints += s.Points
	p.Badges = append(p.Badges, s.Badges...)
}
