package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapport-app/rapport/internal/models"
	"github.com/rapport-app/rapport/internal/store"
	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestStore_SingletonSemantics(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	current, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current, "fresh store has nobody signed in")

	require.NoError(t, s.Save(ctx, &models.Profile{ID: "u1", DisplayName: "Dana"}))
	require.NoError(t, s.Save(ctx, &models.Profile{ID: "u1", DisplayName: "Dana K."}))

	current, err = s.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Dana K.", current.DisplayName)

	// Switching accounts replaces the singleton entirely.
	require.NoError(t, s.Save(ctx, &models.Profile{ID: "u2", DisplayName: "Robin"}))
	current, err = s.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "u2", current.ID)
}

func TestStore_ClearOnLogout(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &models.Profile{ID: "u1", DisplayName: "Dana"}))
	require.NoError(t, s.Clear(ctx))

	current, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}
