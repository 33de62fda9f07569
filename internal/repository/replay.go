package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/models"
	"github.com/rapport-app/rapport/internal/syncqueue"
)

// Replay applies one queued mutation against the remote. It is called by the
// reconciliation runner in strict per-store enqueue order; resolved maps
// temporary ids to the durable ids assigned by creates replayed earlier in
// the same pass, and Replay adds to it when a create resolves.
//
// Queued update/delete payloads snapshot the id at enqueue time. A temp id
// in such a snapshot is only resolvable through the in-pass map, which is
// why the per-store FIFO order must never be violated: if the originating
// create has not resolved yet (failed, or acked in a crashed earlier pass),
// the dependent entry fails and stays queued for the next pass.
func (r *Repository[T, PT]) Replay(ctx context.Context, entry *syncqueue.Entry, resolved map[string]string) error {
	switch entry.Operation {
	case syncqueue.OpCreate:
		return r.replayCreate(ctx, entry, resolved)
	case syncqueue.OpUpdate:
		return r.replayUpdate(ctx, entry, resolved)
	case syncqueue.OpDelete:
		return r.replayDelete(ctx, entry, resolved)
	default:
		return fmt.Errorf("unknown queued operation %q", entry.Operation)
	}
}

func (r *Repository[T, PT]) replayCreate(ctx context.Context, entry *syncqueue.Entry, resolved map[string]string) error {
	item := PT(new(T))
	if err := json.Unmarshal(entry.Payload, item); err != nil {
		return fmt.Errorf("decode queued create: %w", err)
	}

	// The remote is the id authority: strip the temp id before sending.
	tempID := item.EntityID()
	item.SetEntityID("")

	created, err := r.remote.Create(ctx, item, entry.IdempotencyKey)
	if err != nil {
		return err
	}

	if tempID != "" {
		resolved[tempID] = created.EntityID()
		if err := r.local.Delete(ctx, tempID); err != nil {
			r.log.Warn(ctx, "failed to drop temp record", "id", tempID, "err", err)
		}
	}
	if err := r.local.Save(ctx, created); err != nil {
		// The remote create durably succeeded; a cache write failure
		// must not trigger a second create.
		r.log.Warn(ctx, "cache write after replayed create failed", "id", created.EntityID(), "err", err)
	}

	r.log.Info(ctx, "replayed create", "tempId", tempID, "id", created.EntityID())
	return nil
}

func (r *Repository[T, PT]) resolveID(id string, resolved map[string]string) (string, error) {
	if !models.IsTempID(id) {
		return id, nil
	}
	durable, ok := resolved[id]
	if !ok {
		return "", fmt.Errorf("temporary id %s not yet resolved by its create", id)
	}
	return durable, nil
}

func (r *Repository[T, PT]) replayUpdate(ctx context.Context, entry *syncqueue.Entry, resolved map[string]string) error {
	var fields map[string]any
	if err := json.Unmarshal(entry.Payload, &fields); err != nil {
		return fmt.Errorf("decode queued update: %w", err)
	}

	id, _ := fields["id"].(string)
	if id == "" {
		return errors.New("queued update has no id")
	}
	// The update endpoint takes the id in the path, never in the body.
	delete(fields, "id")

	id, err := r.resolveID(id, resolved)
	if err != nil {
		return err
	}

	updated, err := r.remote.Update(ctx, id, fields)
	if err != nil {
		return err
	}
	if err := r.local.Save(ctx, updated); err != nil {
		r.log.Warn(ctx, "cache write after replayed update failed", "id", id, "err", err)
	}

	r.log.Info(ctx, "replayed update", "id", id)
	return nil
}

func (r *Repository[T, PT]) replayDelete(ctx context.Context, entry *syncqueue.Entry, resolved map[string]string) error {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		return fmt.Errorf("decode queued delete: %w", err)
	}
	if payload.ID == "" {
		return errors.New("queued delete has no id")
	}

	id, err := r.resolveID(payload.ID, resolved)
	if err != nil {
		return err
	}

	// A record already gone remotely means the delete reached its goal.
	if err := r.remote.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	r.log.Info(ctx, "replayed delete", "id", id)
	return nil
}
