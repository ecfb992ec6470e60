package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/grove/internal/db"
	"github.com/alexanderramin/grove/internal/domain"
	"github.com/alexanderramin/grove/internal/repository"
)

type profileService struct {
	store repository.SessionStore
	uow   db.UnitOfWork
	obs   EngineObserver
}

// NewProfileService creates the single writer of the user profile.
func NewProfileService(store repository.SessionStore, uow db.UnitOfWork, observers ...EngineObserver) ProfileService {
	return &profileService{
		store: store,
		uow:   uow,
		obs:   engineObserverOrNoop(observers),
	}
}

func (p *profileService) Commit(ctx context.Context, s *domain.Session) error {
	if s == nil || s.EndTime == nil {
		return fmt.Errorf("cannot commit a session that is not frozen")
	}

	err := p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStore := repository.NewSQLiteSessionStore(tx)

		prof, err := loadOrFreshProfile(ctx, txStore)
		if err != nil {
			return err
		}
		prof.Absorb(s)
		if err := txStore.SaveProfile(ctx, prof); err != nil {
			return err
		}
		// The frozen session leaves the active record in the same
		// transaction, so a crash can never double-commit it.
		return txStore.ClearActiveSession(ctx)
	})
	if err != nil {
		return fmt.Errorf("committing session %s: %w", s.ID, err)
	}

	p.obs.ObserveEngine(EngineEvent{Name: "profile_commit", Fields: map[string]any{
		"session": s.ID,
		"points":  s.Points,
	}})
	return nil
}

func (p *profileService) UpdateIdentity(ctx context.Context, name string, avatar []byte) error {
	err := p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStore := repository.NewSQLiteSessionStore(tx)
		prof, err := loadOrFreshProfile(ctx, txStore)
		if err != nil {
			return err
		}
		prof.Name = name
		prof.Avatar = avatar
		return txStore.SaveProfile(ctx, prof)
	})
	if err != nil {
		return fmt.Errorf("updating identity: %w", err)
	}
	return nil
}

func (p *profileService) Get(ctx context.Context) (*domain.UserProfile, error) {
	prof, err := p.store.LoadProfile(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrCorrupt) {
			return &domain.UserProfile{}, nil
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return prof, nil
}

// loadOrFreshProfile reads the profile inside a transaction, treating
// absence and corruption as a fresh profile.
func loadOrFreshProfile(ctx context.Context, store repository.SessionStore) (*domain.UserProfile, error) {
	prof, err := store.LoadProfile(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrCorrupt) {
			return &domain.UserProfile{}, nil
		}
		return nil, err
	}
	return prof, nil
}
