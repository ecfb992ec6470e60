// Package reward computes point/badge awards for focus sessions.
// DueAwards is the single source of truth for "how many awards does a
// session owe": it is pure and idempotent, so the same routine settles
// live ticks, resumes after backgrounding, and restores after a process
// restart without ever double-counting.
package reward

import "time"

// DueAwards returns how many new awards a session has earned:
// the number of whole intervals elapsed minus what was already awarded,
// floored at zero. No hidden state; all counters live in the caller.
func DueAwards(interval, elapsed time.Duration, awarded int) int {
	if interval <= 0 || elapsed < 0 {
		return 0
	}
	due := int(elapsed/interval) - awarded
	if due < 0 {
		return 0
	}
	return due
}

// NextBoundaries returns the first n award instants strictly after the
// given reference, aligned to whole intervals from start. Used to feed
// the reminder scheduler.
func NextBoundaries(start, after time.Time, interval time.Duration, n int) []time.Time {
	if interval <= 0 || n <= 0 {
		return nil
	}
	elapsed := after.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	k := int(elapsed/interval) + 1
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.Add(time.Duration(k+i)*interval))
	}
	return out
}
