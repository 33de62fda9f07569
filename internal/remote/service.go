// Package remote defines the contract of the hosted entity service and an
// HTTP implementation of it. The service is the id authority: durable ids
// and server timestamps come from here, never from the client.
package remote

import (
	"context"

	"github.com/rapport-app/rapport/internal/models"
)

// Service is the per-entity-type surface of the remote store, consumed by
// the connectivity-aware repositories and the reconciliation runner.
//
// Create must be called with an empty id; the server assigns one. The
// idempotencyKey, when non-empty, lets the server deduplicate a replayed
// create after an interrupted reconciliation pass ("" disables dedup).
// Update sends only the changed fields, never the id. Implementations map
// a missing id to common.ErrNotFound and any other rejection to
// common.RemoteError.
type Service[T models.Entity] interface {
	Create(ctx context.Context, item T, idempotencyKey string) (T, error)
	Get(ctx context.Context, id string) (T, error)
	GetAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, fields map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}
