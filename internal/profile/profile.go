// Package profile keeps the signed-in user's own record as a singleton in
// the local store. Unlike the entity collections it is cache-only plumbing:
// it has no queue and no reconciliation, just the record of who is signed in.
package profile

import (
	"context"
	"database/sql"

	"github.com/rapport-app/rapport/internal/models"
	"github.com/rapport-app/rapport/internal/store"
)

// Store wraps the profile table with singleton semantics: at most one
// record, keyed by user id.
type Store struct {
	inner *store.Store[models.Profile, *models.Profile]
}

func New(db *sql.DB) *Store {
	return &Store{inner: store.New[models.Profile](db, models.StoreProfile)}
}

// Save upserts the profile. A profile for a different user replaces the
// current one; there is never more than one signed-in user per device.
func (s *Store) Save(ctx context.Context, p *models.Profile) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.ID != p.ID {
		if err := s.inner.Clear(ctx); err != nil {
			return err
		}
	}
	return s.inner.Save(ctx, p)
}

// Current returns the stored profile, or nil when nobody is signed in.
func (s *Store) Current(ctx context.Context) (*models.Profile, error) {
	all, err := s.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// Clear removes the profile on logout/account switch.
func (s *Store) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}
