package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/alexanderramin/grove/internal/domain"
	"github.com/alexanderramin/grove/internal/repository"
	"github.com/alexanderramin/grove/internal/reward"
	"github.com/alexanderramin/grove/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 2 * time.Minute

type controllerFixture struct {
	ctrl    *sessionController
	clk     *testutil.FakeClock
	sched   *testutil.RecordingScheduler
	store   repository.SessionStore
	profile ProfileService
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteSessionStore(database)
	uow := testutil.NewTestUoW(database)
	clk := testutil.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	sched := &testutil.RecordingScheduler{}
	minter := reward.NewMinter(rand.New(rand.NewPCG(1, 2)), clk)
	profile := NewProfileService(store, uow)

	ctrl := NewSessionController(
		clk, store, sched, minter, profile,
		Config{Interval: testInterval},
	).(*sessionController)
	t.Cleanup(ctrl.Close)

	return &controllerFixture{ctrl: ctrl, clk: clk, sched: sched, store: store, profile: profile}
}

func TestStart_CreatesAndPersistsSession(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))

	snap := f.ctrl.Snapshot()
	assert.True(t, snap.Active)
	assert.False(t, snap.Suspended)
	assert.Equal(t, domain.ModeWork, snap.Mode)
	assert.Equal(t, 0, snap.Points)
	assert.Equal(t, time.Duration(0), snap.Elapsed)

	persisted, err := f.store.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Session.ID, persisted.ID)

	call := f.sched.LastScheduled()
	require.NotNil(t, call)
	assert.Equal(t, domain.ModeWork, call.Mode)
	require.Len(t, call.FireTimes, DefaultReminderHorizon)
	assert.Equal(t, f.clk.Now().Add(testInterval), call.FireTimes[0])
}

func TestStart_RejectsUnknownMode(t *testing.T) {
	f := newControllerFixture(t)
	assert.Error(t, f.ctrl.Start(context.Background(), domain.FocusMode("nap")))
}

func TestStart_WhileActiveStopsPrevious(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))
	first := f.ctrl.Snapshot().Session.ID
	f.clk.Advance(125 * time.Second)

	require.NoError(t, f.ctrl.Start(ctx, domain.ModePlay))

	// The old session was stopped, reconciled and committed first.
	snap := f.ctrl.Snapshot()
	assert.NotEqual(t, first, snap.Session.ID)
	assert.Equal(t, domain.ModePlay, snap.Mode)
	assert.Equal(t, 0, snap.Points)

	prof, err := f.profile.Get(ctx)
	require.NoError(t, err)
	require.Len(t, prof.Sessions, 1)
	assert.Equal(t, first, prof.Sessions[0].ID)
	assert.Equal(t, 1, prof.TotalPoints)
}

func TestTick_AwardsExactlyOnIntervalBoundaries(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))

	// t=119: nothing due yet.
	f.clk.Advance(119 * time.Second)
	f.ctrl.tick(ctx)
	assert.Equal(t, 0, f.ctrl.Snapshot().Points)

	// t=120: first interval completes.
	f.clk.Advance(1 * time.Second)
	f.ctrl.tick(ctx)
	snap := f.ctrl.Snapshot()
	assert.Equal(t, 1, snap.Points)
	assert.Len(t, snap.Session.Badges, 1)

	// t=125 through t=239: still exactly one point.
	f.clk.Advance(5 * time.Second)
	f.ctrl.tick(ctx)
	assert.Equal(t, 1, f.ctrl.Snapshot().Points)
	f.clk.Advance(114 * time.Second)
	f.ctrl.tick(ctx)
	assert.Equal(t, 1, f.ctrl.Snapshot().Points)

	// t=240: second interval completes.
	f.clk.Advance(1 * time.Second)
	f.ctrl.tick(ctx)
	snap = f.ctrl.Snapshot()
	assert.Equal(t, 2, snap.Points)
	assert.Len(t, snap.Session.Badges, 2)
}

func TestReconcile_SecondPassIsNoOp(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))

	f.clk.Advance(250 * time.Second)
	f.ctrl.tick(ctx)
	require.Equal(t, 2, f.ctrl.Snapshot().Points)

	// No time passes: a second reconciliation owes nothing.
	f.ctrl.tick(ctx)
	snap := f.ctrl.Snapshot()
	assert.Equal(t, 2, snap.Points)
	assert.Len(t, snap.Session.Badges, 2)
}

func TestSuspendResume_SettlesMissedIntervalsInOnePass(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))
	require.NoError(t, f.ctrl.Suspend(ctx))

	// Exactly 3 intervals pass with no live ticks.
	f.clk.Advance(3 * testInterval)
	require.NoError(t, f.ctrl.Resume(ctx))

	snap := f.ctrl.Snapshot()
	assert.False(t, snap.Suspended)
	assert.Equal(t, 3, snap.Points)
	assert.Len(t, snap.Session.Badges, 3)

	// The settled state is durable.
	persisted, err := f.store.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, persisted.Points)
	assert.Len(t, persisted.Badges, 3)
}

func TestSuspend_StopsTickerAndKeepsReminders(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))
	scheduledBefore := len(f.sched.Scheduled)

	require.NoError(t, f.ctrl.Suspend(ctx))

	f.ctrl.mu.Lock()
	assert.Nil(t, f.ctrl.ticks, "suspend must cancel the live ticker")
	f.ctrl.mu.Unlock()
	assert.True(t, f.ctrl.Snapshot().Suspended)
	// Reminders stay scheduled while suspended.
	assert.Equal(t, scheduledBefore, len(f.sched.Scheduled))
	assert.Equal(t, 0, f.sched.Cancelled)
}

func TestStop_FreezesAndCommits(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	start := f.clk.Now()
	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))

	f.clk.Advance(125 * time.Second)
	s, err := f.ctrl.Stop(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)

	// The stopping instant never loses a just-completed interval.
	assert.Equal(t, 1, s.Points)
	assert.Len(t, s.Badges, 1)
	require.NotNil(t, s.EndTime)
	assert.True(t, s.EndTime.Equal(start.Add(125*time.Second)))

	// Back to idle: no in-memory or persisted active session.
	assert.False(t, f.ctrl.Snapshot().Active)
	_, err = f.store.LoadActiveSession(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, f.sched.Cancelled)

	prof, err := f.profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, prof.TotalPoints)
	assert.Len(t, prof.Badges, 1)
	require.Len(t, prof.Sessions, 1)
	assert.Equal(t, s.ID, prof.Sessions[0].ID)
}

func TestStop_SettlesAwardAtStopInstant(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))
	require.NoError(t, f.ctrl.Suspend(ctx))

	// Stop exactly on the second boundary with no tick in between.
	f.clk.Advance(2 * testInterval)
	s, err := f.ctrl.Stop(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Points)
	assert.Len(t, s.Badges, 2)
}

func TestStop_WhenIdleIsNoOp(t *testing.T) {
	f := newControllerFixture(t)
	s, err := f.ctrl.Stop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRestore_NothingPersisted(t *testing.T) {
	f := newControllerFixture(t)
	adopted, err := f.ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, adopted)
	assert.False(t, f.ctrl.Snapshot().Active)
}

func TestRestore_FreshSessionIsAdoptedAndReconciled(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	// Persisted 23 hours ago by a previous process; restore adopts it.
	start := f.clk.Now().Add(-23 * time.Hour)
	require.NoError(t, f.store.SaveActiveSession(ctx, &domain.Session{
		ID: "old", Mode: domain.ModeSleep, StartTime: start,
	}))

	adopted, err := f.ctrl.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, adopted)

	wantPoints := int(23 * time.Hour / testInterval)
	snap := f.ctrl.Snapshot()
	assert.Equal(t, wantPoints, snap.Points)
	assert.Len(t, snap.Session.Badges, wantPoints)
	assert.Equal(t, domain.ModeSleep, snap.Mode)

	// Resuming also reschedules reminders.
	assert.NotNil(t, f.sched.LastScheduled())
}

func TestRestore_StaleSessionIsDiscarded(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	start := f.clk.Now().Add(-25 * time.Hour)
	require.NoError(t, f.store.SaveActiveSession(ctx, &domain.Session{
		ID: "stale", Mode: domain.ModeWork, StartTime: start,
	}))

	adopted, err := f.ctrl.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, adopted)
	assert.False(t, f.ctrl.Snapshot().Active)

	// Discarded for good, with reminders cancelled.
	_, err = f.store.LoadActiveSession(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, f.sched.Cancelled)
}

func TestRestore_CorruptStateTreatedAsAbsent(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteSessionStore(database)
	uow := testutil.NewTestUoW(database)
	clk := testutil.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	minter := reward.NewMinter(rand.New(rand.NewPCG(1, 2)), clk)
	ctrl := NewSessionController(
		clk, store, &testutil.RecordingScheduler{}, minter,
		NewProfileService(store, uow), Config{Interval: testInterval},
	).(*sessionController)
	t.Cleanup(ctrl.Close)

	_, err := database.Exec(
		`INSERT INTO active_session (singleton, id, mode, start_time, points) VALUES (1, 's1', 'work', 'not-a-time', 0)`)
	require.NoError(t, err)

	adopted, err := ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, adopted)

	// The corrupt record is cleared so it cannot poison later restores.
	_, err = store.LoadActiveSession(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAwardListener_OnlyCalledFromLiveTicks(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	awards := make(chan int, 8)
	f.ctrl.SetAwardListener(func(minted []domain.Badge, points int) {
		awards <- len(minted)
	})

	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))
	require.NoError(t, f.ctrl.Suspend(ctx))
	f.clk.Advance(2 * testInterval)
	require.NoError(t, f.ctrl.Resume(ctx))

	// Resume reconciliation settled 2 awards without notifying.
	require.Equal(t, 2, f.ctrl.Snapshot().Points)
	select {
	case n := <-awards:
		t.Fatalf("listener called with %d badges from non-live reconciliation", n)
	case <-time.After(50 * time.Millisecond):
	}

	// A live tick that mints does notify.
	f.clk.Advance(testInterval)
	f.ctrl.tick(ctx)
	select {
	case n := <-awards:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("listener not called from live tick")
	}
}

func TestInvariant_PointsTrackBadgesAndIntervals(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Start(ctx, domain.ModeWork))
	f.clk.Advance(3 * time.Minute)
	f.ctrl.tick(ctx)
	require.NoError(t, f.ctrl.Suspend(ctx))
	f.clk.Advance(7 * time.Minute)
	require.NoError(t, f.ctrl.Resume(ctx))
	f.clk.Advance(2 * time.Minute)
	f.ctrl.tick(ctx)

	s, err := f.ctrl.Stop(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)

	duration := s.EndTime.Sub(s.StartTime)
	want := int(duration / testInterval)
	assert.Equal(t, want, s.Points)
	assert.Len(t, s.Badges, want)
	assert.Equal(t, 12*time.Minute, duration)
}

func TestStatus_ReadsWithoutAdopting(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	start := f.clk.Now().Add(-5 * time.Minute)
	require.NoError(t, f.store.SaveActiveSession(ctx, &domain.Session{
		ID: "owned-elsewhere", Mode: domain.ModeWork, StartTime: start,
	}))

	info, err := f.ctrl.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 5*time.Minute, info.Elapsed)
	assert.Equal(t, 2, info.PendingAwards)

	// Status must not mutate or adopt.
	assert.False(t, f.ctrl.Snapshot().Active)
	persisted, err := f.store.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, persisted.Points)
}

func TestStatus_NilWhenIdle(t *testing.T) {
	f := newControllerFixture(t)
	info, err := f.ctrl.Status(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info)
}
