// Package repository exposes one CRUD contract per entity type that hides
// connectivity from callers: reads prefer the remote and fall back to the
// local cache, writes go straight to the remote when online or become an
// optimistic local write plus a queued mutation when offline.
//
// One generic implementation replaces the per-type repositories; each entity
// type is wired with its store handle and remote endpoint at construction.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/connectivity"
	"github.com/rapport-app/rapport/internal/logging"
	"github.com/rapport-app/rapport/internal/models"
	"github.com/rapport-app/rapport/internal/remote"
	"github.com/rapport-app/rapport/internal/store"
	"github.com/rapport-app/rapport/internal/syncqueue"
)

// Repository is the connectivity-aware CRUD surface for one entity type.
type Repository[T any, PT models.Ptr[T]] struct {
	name   string
	remote remote.Service[PT]
	local  *store.Store[T, PT]
	queue  *syncqueue.Queue
	probe  connectivity.Probe
	log    logging.Logger
	now    func() time.Time
}

// New wires a repository from its per-type collaborators. The probe is
// sampled once at the start of every operation, never mid-call.
func New[T any, PT models.Ptr[T]](
	name string,
	rs remote.Service[PT],
	local *store.Store[T, PT],
	queue *syncqueue.Queue,
	probe connectivity.Probe,
	log logging.Logger,
) *Repository[T, PT] {
	return &Repository[T, PT]{
		name:   name,
		remote: rs,
		local:  local,
		queue:  queue,
		probe:  probe,
		log:    log.With("store", name),
		now:    time.Now,
	}
}

// StoreName returns the entity collection this repository serves.
func (r *Repository[T, PT]) StoreName() string { return r.name }

// Online reports the sampled connectivity state, for callers that adjust
// UX ("changes will sync when you're back online").
func (r *Repository[T, PT]) Online(ctx context.Context) bool {
	return r.probe.Online(ctx)
}

// PendingCount returns the number of queued mutations for this store.
func (r *Repository[T, PT]) PendingCount(ctx context.Context) (int, error) {
	return r.queue.Count(ctx, r.name)
}

// GetAll lists every record: remote-first with a cache write-through, cache
// fallback when the remote call fails, cache-only when offline.
func (r *Repository[T, PT]) GetAll(ctx context.Context) ([]PT, error) {
	if !r.probe.Online(ctx) {
		return r.local.GetAll(ctx)
	}

	items, err := r.remote.GetAll(ctx)
	if err != nil {
		r.log.Warn(ctx, "remote list failed, serving cache", "err", err)
		cached, lerr := r.local.GetAll(ctx)
		if lerr != nil {
			return nil, err
		}
		return cached, nil
	}

	if err := r.local.SaveAll(ctx, items); err != nil {
		// The remote answer is still authoritative; a cache refresh
		// failure only costs future offline reads.
		r.log.Warn(ctx, "cache refresh failed", "err", err)
	}
	return items, nil
}

// Get reads one record through the same three-tier fallback as GetAll.
// A remote miss still consults the cache; only a miss in both surfaces
// the error.
func (r *Repository[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	if !r.probe.Online(ctx) {
		cached, err := r.local.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if cached == nil {
			return nil, fmt.Errorf("%s %s: %w", r.name, id, common.ErrNotFound)
		}
		return cached, nil
	}

	item, err := r.remote.Get(ctx, id)
	if err != nil {
		cached, lerr := r.local.Get(ctx, id)
		if lerr == nil && cached != nil {
			r.log.Warn(ctx, "remote get failed, serving cached record", "id", id, "err", err)
			return cached, nil
		}
		return nil, err
	}

	if err := r.local.Save(ctx, item); err != nil {
		r.log.Warn(ctx, "cache refresh failed", "id", id, "err", err)
	}
	return item, nil
}

// Create stores a new record. Online, the remote result (durable id, server
// timestamps) is written through to the cache. Offline, a temp-id record is
// saved locally, the create is queued, and the synthesized record is
// returned as an optimistic success.
//
// An online remote failure propagates; it is never downgraded to queueing.
func (r *Repository[T, PT]) Create(ctx context.Context, item PT) (PT, error) {
	if r.probe.Online(ctx) {
		item.SetEntityID("")
		created, err := r.remote.Create(ctx, item, "")
		if err != nil {
			return nil, err
		}
		if err := r.local.Save(ctx, created); err != nil {
			r.log.Warn(ctx, "cache write-through failed", "id", created.EntityID(), "err", err)
		}
		return created, nil
	}

	now := r.now().UTC()
	item.SetEntityID(models.NewTempID())
	item.StampCreated(now)
	item.Touch(now)

	if err := r.local.Save(ctx, item); err != nil {
		return nil, err
	}
	if _, err := r.queue.Enqueue(ctx, syncqueue.OpCreate, r.name, item); err != nil {
		// The mutation failed end-to-end; do not leave an unqueued
		// local record behind.
		_ = r.local.Delete(ctx, item.EntityID())
		return nil, err
	}

	r.log.Info(ctx, "queued offline create", "id", item.EntityID())
	return item, nil
}

// Update applies a partial change. Online, the remote handles the merge and
// the result is written through. Offline, the change is merged into the
// cached record; updating a never-cached record offline is unsupported and
// returns ErrNotFound.
func (r *Repository[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (PT, error) {
	if r.probe.Online(ctx) {
		updated, err := r.remote.Update(ctx, id, fields)
		if err != nil {
			return nil, err
		}
		if err := r.local.Save(ctx, updated); err != nil {
			r.log.Warn(ctx, "cache write-through failed", "id", id, "err", err)
		}
		return updated, nil
	}

	cached, err := r.local.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, fmt.Errorf("offline update of %s %s: %w", r.name, id, common.ErrNotFound)
	}

	merged, err := mergeRecord[T, PT](cached, fields)
	if err != nil {
		return nil, err
	}
	merged.SetEntityID(id)
	merged.Touch(r.now().UTC())

	if err := r.local.Save(ctx, merged); err != nil {
		return nil, err
	}
	// The queued payload is the full merged snapshot, not the diff.
	if _, err := r.queue.Enqueue(ctx, syncqueue.OpUpdate, r.name, merged); err != nil {
		return nil, err
	}

	r.log.Info(ctx, "queued offline update", "id", id)
	return merged, nil
}

// Delete removes a record. Deleting an id the remote no longer knows is a
// no-op rather than an error, so repeated deletes never throw. Offline, the
// record is removed locally at once and the delete is queued.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	if r.probe.Online(ctx) {
		if err := r.remote.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return r.local.Delete(ctx, id)
	}

	if err := r.local.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := r.queue.Enqueue(ctx, syncqueue.OpDelete, r.name, map[string]string{"id": id}); err != nil {
		return err
	}

	r.log.Info(ctx, "queued offline delete", "id", id)
	return nil
}

// mergeRecord overlays partial fields onto the cached record via its JSON
// form, mirroring how the remote merges a partial update. The id cannot be
// overridden by a field.
func mergeRecord[T any, PT models.Ptr[T]](cached PT, fields map[string]any) (PT, error) {
	raw, err := json.Marshal(cached)
	if err != nil {
		return nil, fmt.Errorf("merge update: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("merge update: %w", err)
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		m[k] = v
	}
	raw, err = json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("merge update: %w", err)
	}
	merged := PT(new(T))
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, fmt.Errorf("merge update: %w", err)
	}
	return merged, nil
}
