package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/grove/internal/domain"
)

// FormatClock renders an elapsed duration as MM:SS below one hour and
// HH:MM:SS at or above it.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// BadgeShelf renders earned badges as a single emoji row, earn order
// left to right. Returns a dim placeholder when empty.
func BadgeShelf(badges []domain.Badge) string {
	if len(badges) == 0 {
		return StyleDim.Render("no badges yet")
	}
	emojis := make([]string, 0, len(badges))
	for _, b := range badges {
		emojis = append(emojis, b.Emoji)
	}
	return strings.Join(emojis, " ")
}

// Points renders a point total with its unit.
func Points(n int) string {
	if n == 1 {
		return StyleBold.Render("1 point")
	}
	return StyleBold.Render(fmt.Sprintf("%d points", n))
}

// SessionLine renders one completed session for history listings.
func SessionLine(s *domain.Session) string {
	end := ""
	if s.EndTime != nil {
		end = s.EndTime.Local().Format("Jan 2 15:04")
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		ModeLabel(s.Mode),
		StyleDim.Render(end),
		FormatClock(s.Elapsed(time.Now())),
		BadgeShelf(s.Badges),
	)
}
