package testutil

import (
	"sync"
	"time"

	"github.com/alexanderramin/grove/internal/domain"
)

// ReminderCall records one ScheduleUpcoming invocation.
type ReminderCall struct {
	Mode      domain.FocusMode
	FireTimes []time.Time
}

// RecordingScheduler is a ReminderScheduler that records every call, so
// tests can assert what was scheduled and cancelled.
type RecordingScheduler struct {
	mu        sync.Mutex
	Scheduled []ReminderCall
	Cancelled int
}

func (r *RecordingScheduler) ScheduleUpcoming(mode domain.FocusMode, fireTimes []time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Scheduled = append(r.Scheduled, ReminderCall{Mode: mode, FireTimes: fireTimes})
	return nil
}

func (r *RecordingScheduler) CancelAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cancelled++
	return nil
}

// LastScheduled returns the most recent call, or nil.
func (r *RecordingScheduler) LastScheduled() *ReminderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Scheduled) == 0 {
		return nil
	}
	call := r.Scheduled[len(r.Scheduled)-1]
	return &call
}
