// Package notify provides ReminderScheduler implementations. The engine
// treats reminder delivery as best-effort; these schedulers record or
// ignore the schedule, and a platform notifier can replace them without
// the engine knowing.
package notify

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/grove/internal/domain"
	"github.com/alexanderramin/grove/internal/service"
)

// Noop discards all scheduling requests.
type Noop struct{}

func (Noop) ScheduleUpcoming(domain.FocusMode, []time.Time) error { return nil }
func (Noop) CancelAll() error                                     { return nil }

// LogScheduler writes the reminder schedule to an io.Writer. Useful for
// debugging and as a stand-in where no platform notifier exists.
type LogScheduler struct {
	w io.Writer
}

// NewLogScheduler creates a scheduler that logs to w.
func NewLogScheduler(w io.Writer) *LogScheduler {
	return &LogScheduler{w: w}
}

func (s *LogScheduler) ScheduleUpcoming(mode domain.FocusMode, fireTimes []time.Time) error {
	if len(fireTimes) == 0 {
		return nil
	}
	first, last := fireTimes[0], fireTimes[len(fireTimes)-1]
	_, err := fmt.Fprintf(s.w, "reminders scheduled mode=%s count=%d first=%s last=%s\n",
		mode, len(fireTimes), first.Format(time.RFC3339), last.Format(time.RFC3339))
	return err
}

func (s *LogScheduler) CancelAll() error {
	_, err := fmt.Fprintln(s.w, "reminders cancelled")
	return err
}

var (
	_ service.ReminderScheduler = Noop{}
	_ service.ReminderScheduler = (*LogScheduler)(nil)
)
