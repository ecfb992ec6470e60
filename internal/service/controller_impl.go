package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/grove/internal/clock"
	"github.com/alexanderramin/grove/internal/domain"
	"github.com/alexanderramin/grove/internal/repository"
	"github.com/alexanderramin/grove/internal/reward"
	"github.com/google/uuid"
)

// Config holds the tunable parameters of the session engine.
type Config struct {
	// Interval is the award cadence: one point and one badge per whole
	// interval of elapsed wall-clock time.
	Interval time.Duration

	// Staleness is the ceiling on how old a persisted session may be
	// before Restore discards it as abandoned.
	Staleness time.Duration

	// ReminderHorizon is how many upcoming award instants are handed to
	// the reminder scheduler.
	ReminderHorizon int
}

const (
	DefaultInterval        = 2 * time.Minute
	DefaultStaleness       = 24 * time.Hour
	DefaultReminderHorizon = 12
)

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Staleness <= 0 {
		c.Staleness = DefaultStaleness
	}
	if c.ReminderHorizon <= 0 {
		c.ReminderHorizon = DefaultReminderHorizon
	}
	return c
}

type sessionController struct {
	clk       clock.Clock
	store     repository.SessionStore
	reminders ReminderScheduler
	minter    *reward.Minter
	profile   ProfileService
	cfg       Config
	obs       EngineObserver

	// mu guards session, suspended, onAward and ticks. The controller
	// operations are expected to run on one designated goroutine; the
	// lock exists because the live tick loop is a second reader.
	mu        sync.Mutex
	session   *domain.Session
	suspended bool
	onAward   AwardListener
	ticks     *tickLoop
}

// NewSessionController wires the session state machine. The clock,
// store, reminder scheduler and badge minter are injected; there is no
// ambient global state.
func NewSessionController(
	clk clock.Clock,
	store repository.SessionStore,
	reminders ReminderScheduler,
	minter *reward.Minter,
	profile ProfileService,
	cfg Config,
	observers ...EngineObserver,
) SessionController {
	return &sessionController{
		clk:       clk,
		store:     store,
		reminders: reminders,
		minter:    minter,
		profile:   profile,
		cfg:       cfg.withDefaults(),
		obs:       engineObserverOrNoop(observers),
	}
}

func (c *sessionController) Start(ctx context.Context, mode domain.FocusMode) error {
	if _, ok := domain.ParseFocusMode(string(mode)); !ok {
		return fmt.Errorf("unknown focus mode %q", mode)
	}

	// Starting while a session is active implicitly stops the old one,
	// keeping the single-active-session invariant.
	c.mu.Lock()
	active := c.session != nil
	c.mu.Unlock()
	if active {
		if _, err := c.Stop(ctx); err != nil {
			return fmt.Errorf("stopping previous session: %w", err)
		}
	}

	c.stopTicker()
	c.mu.Lock()
	now := c.clk.Now()
	c.session = &domain.Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		StartTime: now,
	}
	c.suspended = false
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.startTicker()
	c.scheduleReminders(mode, now, now)
	c.observe("session_started", map[string]any{"mode": string(mode)}, nil)
	return nil
}

func (c *sessionController) Stop(ctx context.Context) (*domain.Session, error) {
	// Cancel the ticker before mutating state so a late-firing tick can
	// never reconcile against a session that has already moved on.
	c.stopTicker()

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return nil, nil
	}
	now := c.clk.Now()
	// Final reconciliation: the stopping instant must not lose a
	// just-completed interval.
	c.reconcileLocked(ctx, now, false)
	end := now
	s.EndTime = &end
	c.session = nil
	c.suspended = false
	c.mu.Unlock()

	// Commit is best-effort: a store failure never blocks the
	// transition back to idle.
	if err := c.profile.Commit(ctx, s); err != nil {
		c.observe("commit_session", map[string]any{"session": s.ID}, err)
	}
	if err := c.reminders.CancelAll(); err != nil {
		c.observe("cancel_reminders", nil, err)
	}
	c.observe("session_stopped", map[string]any{
		"session": s.ID,
		"points":  s.Points,
	}, nil)
	return s, nil
}

func (c *sessionController) Suspend(ctx context.Context) error {
	c.stopTicker()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.suspended {
		return nil
	}
	c.suspended = true
	// The session stays persisted with its current counts; reminders
	// remain scheduled so the user is still notified while suspended.
	c.persistLocked(ctx)
	c.observe("session_suspended", map[string]any{"session": c.session.ID}, nil)
	return nil
}

func (c *sessionController) Resume(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil || !c.suspended {
		c.mu.Unlock()
		return nil
	}
	now := c.clk.Now()
	// Settle everything earned while nobody was watching in one pass.
	due := c.reconcileLocked(ctx, now, false)
	c.suspended = false
	c.persistLocked(ctx)
	mode, start := c.session.Mode, c.session.StartTime
	c.mu.Unlock()

	c.startTicker()
	c.scheduleReminders(mode, start, now)
	c.observe("session_resumed", map[string]any{"awards_settled": due}, nil)
	return nil
}

func (c *sessionController) Restore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return false, errors.New("session already active")
	}
	c.mu.Unlock()

	s, err := c.store.LoadActiveSession(ctx)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return false, nil
		case errors.Is(err, repository.ErrCorrupt):
			// Malformed state is treated as absence, never a crash.
			if clearErr := c.store.ClearActiveSession(ctx); clearErr != nil {
				c.observe("clear_corrupt_session", nil, clearErr)
			}
			c.observe("corrupt_session_discarded", nil, err)
			return false, nil
		default:
			// Transient load failure: worst case is a session silently
			// not resuming, which beats a crash loop.
			c.observe("load_active_session", nil, err)
			return false, nil
		}
	}

	now := c.clk.Now()
	if now.Sub(s.StartTime) > c.cfg.Staleness {
		// Abandoned session; never silently resurrected.
		if err := c.store.ClearActiveSession(ctx); err != nil {
			c.observe("clear_stale_session", nil, err)
		}
		if err := c.reminders.CancelAll(); err != nil {
			c.observe("cancel_reminders", nil, err)
		}
		c.observe("stale_session_discarded", map[string]any{
			"session": s.ID,
			"age":     now.Sub(s.StartTime).String(),
		}, nil)
		return false, nil
	}

	// Adopt as suspended, then take the normal resume path so there is
	// exactly one reconciliation code path.
	c.mu.Lock()
	c.session = s
	c.suspended = true
	c.mu.Unlock()
	return true, c.Resume(ctx)
}

func (c *sessionController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Snapshot{}
	}
	return Snapshot{
		Active:    true,
		Suspended: c.suspended,
		Mode:      c.session.Mode,
		Elapsed:   c.session.Elapsed(c.clk.Now()),
		Points:    c.session.Points,
		Session:   c.session.Clone(),
	}
}

func (c *sessionController) Status(ctx context.Context) (*StatusInfo, error) {
	s, err := c.store.LoadActiveSession(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrCorrupt) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	elapsed := s.Elapsed(c.clk.Now())
	return &StatusInfo{
		Session:       s,
		Elapsed:       elapsed,
		PendingAwards: reward.DueAwards(c.cfg.Interval, elapsed, s.Points),
	}, nil
}

func (c *sessionController) SetAwardListener(fn AwardListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAward = fn
}

func (c *sessionController) Close() {
	c.stopTicker()
}

// reconcileLocked is the single award-settlement path shared by the live
// tick, Resume and Restore. It derives the due count purely from the
// wall-clock elapsed time and the session's own points counter, so the
// result is identical whether one second or many hours passed
// unobserved. Caller holds mu. Returns how many awards were minted.
func (c *sessionController) reconcileLocked(ctx context.Context, now time.Time, live bool) int {
	s := c.session
	elapsed := s.Elapsed(now)
	due := reward.DueAwards(c.cfg.Interval, elapsed, s.Points)
	if due == 0 {
		return 0
	}

	minted := c.minter.MintN(due)
	s.Badges = append(s.Badges, minted...)
	s.Points += due
	c.persistLocked(ctx)
	c.observe("awards_minted", map[string]any{
		"session": s.ID,
		"due":     due,
		"points":  s.Points,
	}, nil)

	// Only a live foreground tick notifies the presentation layer.
	if live && c.onAward != nil {
		fn, points := c.onAward, s.Points
		go fn(minted, points)
	}
	return due
}

// persistLocked saves the active session, best-effort: a failed save is
// reported to the observer and retried at the next natural persistence
// point. Caller holds mu.
func (c *sessionController) persistLocked(ctx context.Context) {
	if err := c.store.SaveActiveSession(ctx, c.session); err != nil {
		c.observe("save_active_session", nil, err)
	}
}

func (c *sessionController) scheduleReminders(mode domain.FocusMode, start, after time.Time) {
	fires := reward.NextBoundaries(start, after, c.cfg.Interval, c.cfg.ReminderHorizon)
	if err := c.reminders.ScheduleUpcoming(mode, fires); err != nil {
		c.observe("schedule_reminders", nil, err)
	}
}

func (c *sessionController) observe(name string, fields map[string]any, err error) {
	c.obs.ObserveEngine(EngineEvent{Name: name, Fields: fields, Err: err})
}
