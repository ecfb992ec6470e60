package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/grove/internal/domain"
	"github.com/alexanderramin/grove/internal/repository"
	"github.com/alexanderramin/grove/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (ProfileService, repository.SessionStore) {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteSessionStore(database)
	return NewProfileService(store, testutil.NewTestUoW(database)), store
}

func TestProfileGet_FreshBeforeFirstSave(t *testing.T) {
	svc, _ := newProfileFixture(t)

	prof, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", prof.Name)
	assert.Equal(t, 0, prof.TotalPoints)
	assert.Empty(t, prof.Sessions)
}

func TestProfileCommit_AccumulatesAcrossSessions(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s1 := testutil.NewTestCompletedSession(domain.ModeWork, start, 5*time.Minute, 2)
	s2 := testutil.NewTestCompletedSession(domain.ModeRest, start.Add(time.Hour), 3*time.Minute, 1)

	require.NoError(t, svc.Commit(ctx, s1))
	require.NoError(t, svc.Commit(ctx, s2))

	prof, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, prof.TotalPoints)
	require.Len(t, prof.Sessions, 2)
	assert.Equal(t, s1.ID, prof.Sessions[0].ID)
	assert.Equal(t, s2.ID, prof.Sessions[1].ID)
	require.Len(t, prof.Badges, 3)
	assert.Equal(t, s1.Badges[0].ID, prof.Badges[0].ID)
	assert.Equal(t, s2.Badges[0].ID, prof.Badges[2].ID)
}

func TestProfileCommit_ClearsActiveSessionAtomically(t *testing.T) {
	svc, store := newProfileFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	s := testutil.NewTestCompletedSession(domain.ModeWork, start, 5*time.Minute, 1)
	s.EndTime = &end

	// Simulate the controller's persisted active record for this session.
	active := s.Clone()
	active.EndTime = nil
	require.NoError(t, store.SaveActiveSession(ctx, active))

	require.NoError(t, svc.Commit(ctx, s))

	_, err := store.LoadActiveSession(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileCommit_RejectsUnfrozenSession(t *testing.T) {
	svc, _ := newProfileFixture(t)

	s := &domain.Session{
		ID: "live", Mode: domain.ModeWork,
		StartTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	assert.Error(t, svc.Commit(context.Background(), s))
	assert.Error(t, svc.Commit(context.Background(), nil))
}

func TestProfileCommit_RollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteSessionStore(database)
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := testutil.NewTestCompletedSession(domain.ModeWork, start, 5*time.Minute, 2)

	active := s.Clone()
	active.EndTime = nil
	require.NoError(t, store.SaveActiveSession(ctx, active))

	// Fail on the final exec (clearing the active session): everything
	// written before it must roll back.
	failing := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 5,
		Err:    errors.New("disk full"),
	}
	svc := NewProfileService(store, failing)

	err := svc.Commit(ctx, s)
	require.Error(t, err)

	// Profile untouched, active session still present.
	_, err = store.LoadProfile(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	persisted, err := store.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, active.ID, persisted.ID)
}

func TestProfileUpdateIdentity_ReplacesNameAndAvatar(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateIdentity(ctx, "Ada", []byte{1, 2, 3}))

	prof, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", prof.Name)
	assert.Equal(t, []byte{1, 2, 3}, prof.Avatar)

	// Identity updates never touch totals or history.
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Commit(ctx, testutil.NewTestCompletedSession(domain.ModeWork, start, 5*time.Minute, 1)))
	require.NoError(t, svc.UpdateIdentity(ctx, "Grace", nil))

	prof, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace", prof.Name)
	assert.Nil(t, prof.Avatar)
	assert.Equal(t, 1, prof.TotalPoints)
	assert.Len(t, prof.Sessions, 1)
}
