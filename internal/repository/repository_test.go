package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/connectivity"
	"github.com/rapport-app/rapport/internal/logging"
	"github.com/rapport-app/rapport/internal/models"
	"github.com/rapport-app/rapport/internal/remote"
	"github.com/rapport-app/rapport/internal/store"
	"github.com/rapport-app/rapport/internal/syncqueue"
	_ "modernc.org/sqlite"
)

// fakeRemote is an in-memory stand-in for the hosted contact service.
type fakeRemote struct {
	records map[string]models.Contact
	seq     int
	idem    map[string]string

	failCreate error
	failGet    error
	failList   error
	failUpdate error
	failDelete error

	createCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		records: make(map[string]models.Contact),
		idem:    make(map[string]string),
	}
}

var _ remote.Service[*models.Contact] = (*fakeRemote)(nil)

func (f *fakeRemote) Create(_ context.Context, item *models.Contact, idempotencyKey string) (*models.Contact, error) {
	f.createCalls++
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	if idempotencyKey != "" {
		if id, ok := f.idem[idempotencyKey]; ok {
			c := f.records[id]
			return &c, nil
		}
	}
	f.seq++
	c := *item
	c.ID = fmt.Sprintf("srv_%d", f.seq)
	c.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c.UpdatedAt = c.CreatedAt
	f.records[c.ID] = c
	if idempotencyKey != "" {
		f.idem[idempotencyKey] = c.ID
	}
	return &c, nil
}

func (f *fakeRemote) Get(_ context.Context, id string) (*models.Contact, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	c, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("contact %s: %w", id, common.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeRemote) GetAll(_ context.Context) ([]*models.Contact, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]*models.Contact, 0, len(ids))
	for _, id := range ids {
		c := f.records[id]
		result = append(result, &c)
	}
	return result, nil
}

func (f *fakeRemote) Update(_ context.Context, id string, fields map[string]any) (*models.Contact, error) {
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	c, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("contact %s: %w", id, common.ErrNotFound)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range fields {
		m[k] = v
	}
	raw, err = json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var merged models.Contact
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	merged.ID = id
	merged.UpdatedAt = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	f.records[id] = merged
	return &merged, nil
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.records[id]; !ok {
		return fmt.Errorf("contact %s: %w", id, common.ErrNotFound)
	}
	delete(f.records, id)
	return nil
}

type fixture struct {
	db     *sql.DB
	remote *fakeRemote
	local  *store.Store[models.Contact, *models.Contact]
	queue  *syncqueue.Queue
	probe  connectivity.Static
}

func setup(t *testing.T, online bool) (*Repository[models.Contact, *models.Contact], *fixture) {
	t.Helper()
	db, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fx := &fixture{
		db:     db,
		remote: newFakeRemote(),
		local:  store.New[models.Contact](db, models.StoreContacts),
		queue:  syncqueue.New(db),
		probe:  connectivity.Static(online),
	}
	repo := New(models.StoreContacts, fx.remote, fx.local, fx.queue, fx.probe, logging.Discard())
	return repo, fx
}

func TestGetAll_OnlineWritesThroughCache(t *testing.T) {
	repo, fx := setup(t, true)
	ctx := context.Background()

	_, err := fx.remote.Create(ctx, &models.Contact{FirstName: "Ada"}, "")
	require.NoError(t, err)
	_, err = fx.remote.Create(ctx, &models.Contact{FirstName: "Grace"}, "")
	require.NoError(t, err)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	cached, err := fx.local.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2, "remote list must refresh the cache")
}

func TestGetAll_FallsBackToCacheOnRemoteFailure(t *testing.T) {
	repo, fx := setup(t, true)
	ctx := context.Background()

	require.NoError(t, fx.local.Save(ctx, &models.Contact{ID: "srv_1", FirstName: "Ada"}))
	fx.remote.failList = errors.New("connection reset")

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].FirstName)
}

func TestGet_FallsBackToCachedValue(t *testing.T) {
	repo, fx := setup(t, true)
	ctx := context.Background()

	require.NoError(t, fx.local.Save(ctx, &models.Contact{ID: "srv_1", FirstName: "Ada"}))
	fx.remote.failGet = errors.New("503 from server")

	got, err := repo.Get(ctx, "srv_1")
	require.NoError(t, err, "cached value must win over a failing remote")
	assert.Equal(t, "Ada", got.FirstName)
}

func TestGet_SurfacesErrorWhenCacheMissesToo(t *testing.T) {
	repo, fx := setup(t, true)

	cause := errors.New("connection refused")
	fx.remote.failGet = cause

	_, err := repo.Get(context.Background(), "srv_1")
	require.ErrorIs(t, err, cause, "without a cache entry the original error surfaces")
}

func TestGet_OfflineAbsentIsNotFound(t *testing.T) {
	repo, _ := setup(t, false)

	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreate_OnlineUsesServerIDAndCaches(t *testing.T) {
	repo, fx := setup(t, true)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Contact{FirstName: "Ada"})
	require.NoError(t, err)
	assert.False(t, models.IsTempID(created.ID))

	cached, err := fx.local.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Ada", cached.FirstName)

	n, err := fx.queue.Count(ctx, models.StoreContacts)
	require.NoError(t, err)
	assert.Zero(t, n, "online create must not queue")
}

func TestCreate_OnlineFailurePropagatesWithoutQueueing(t *testing.T) {
	repo, fx := setup(t, true)
	ctx := context.Background()

	cause := &common.RemoteError{Status: 422, Message: "first_name required"}
	fx.remote.failCreate = cause

	_, err := repo.Create(ctx, &models.Contact{})
	var re *common.RemoteError
	require.ErrorAs(t, err, &re)

	n, err := fx.queue.Count(ctx, models.StoreContacts)
	require.NoError(t, err)
	assert.Zero(t, n, "an online failure is never downgraded to offline queueing")
}

func TestCreate_OfflineSynthesizesTempIDAndQueues(t *testing.T) {
	repo, fx := setup(t, false)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Contact{FirstName: "Ada"})
	require.NoError(t, err)
	assert.True(t, models.IsTempID(created.ID))
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	cached, err := fx.local.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)

	entries, err := fx.queue.PendingFor(ctx, models.StoreContacts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, syncqueue.OpCreate, entries[0].Operation)
	assert.NotEmpty(t, entries[0].IdempotencyKey)

	var snapshot models.Contact
	require.NoError(t, json.Unmarshal(entries[0].Payload, &snapshot))
	assert.Equal(t, created.ID, snapshot.ID, "queued snapshot carries the temp id")

	assert.Zero(t, fx.remote.createCalls, "offline create must not touch the remote")
}

func TestUpdate_OfflineMergesIntoCachedRecord(t *testing.T) {
	repo, fx := setup(t, false)
	ctx := context.Background()

	require.NoError(t, fx.local.Save(ctx, &models.Contact{
		ID: "srv_1", FirstName: "Ada", Email: "ada@example.com",
	}))

	updated, err := repo.Update(ctx, "srv_1", map[string]any{"first_name": "Adeline"})
	require.NoError(t, err)
	assert.Equal(t, "Adeline", updated.FirstName)
	assert.Equal(t, "ada@example.com", updated.Email, "untouched fields survive the merge")

	entries, err := fx.queue.PendingFor(ctx, models.StoreContacts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, syncqueue.OpUpdate, entries[0].Operation)

	var snapshot models.Contact
	require.NoError(t, json.Unmarshal(entries[0].Payload, &snapshot))
	assert.Equal(t, "Adeline", snapshot.FirstName, "queue holds the full merged payload")
	assert.Equal(t, "srv_1", snapshot.ID)
}

func TestUpdate_OfflineNeverCachedIsNotFound(t *testing.T) {
	repo, fx := setup(t, false)

	_, err := repo.Update(context.Background(), "ghost", map[string]any{"first_name": "X"})
	require.ErrorIs(t, err, common.ErrNotFound)

	n, err := fx.queue.Count(context.Background(), models.StoreContacts)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdate_OnlineWritesThrough(t *testing.T) {
	repo, fx := setup(t, true)
	ctx := context.Background()

	seed, err := fx.remote.Create(ctx, &models.Contact{FirstName: "Ada"}, "")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, seed.ID, map[string]any{"notes": "loves punch cards"})
	require.NoError(t, err)
	assert.Equal(t, "loves punch cards", updated.Notes)

	cached, err := fx.local.Get(ctx, seed.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "loves punch cards", cached.Notes)
}

func TestDelete_IsIdempotentOnlineAndOffline(t *testing.T) {
	ctx := context.Background()

	t.Run("online", func(t *testing.T) {
		repo, fx := setup(t, true)
		seed, err := fx.remote.Create(ctx, &models.Contact{FirstName: "Ada"}, "")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, seed.ID))
		require.NoError(t, repo.Delete(ctx, seed.ID), "second delete of an absent id must not throw")
	})

	t.Run("offline", func(t *testing.T) {
		repo, fx := setup(t, false)
		require.NoError(t, fx.local.Save(ctx, &models.Contact{ID: "srv_1", FirstName: "Ada"}))

		require.NoError(t, repo.Delete(ctx, "srv_1"))
		require.NoError(t, repo.Delete(ctx, "srv_1"))

		cached, err := fx.local.Get(ctx, "srv_1")
		require.NoError(t, err)
		assert.Nil(t, cached, "offline delete removes the cached record at once")

		entries, err := fx.queue.PendingFor(ctx, models.StoreContacts)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, syncqueue.OpDelete, entries[0].Operation)
	})
}

func TestOnlineFlagAndPendingCount(t *testing.T) {
	repo, _ := setup(t, false)
	ctx := context.Background()

	assert.False(t, repo.Online(ctx))

	_, err := repo.Create(ctx, &models.Contact{FirstName: "Ada"})
	require.NoError(t, err)

	n, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
