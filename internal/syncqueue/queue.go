// Package syncqueue implements the pending-operation queue: an append-only
// durable log of mutations performed while the remote was unreachable.
// It is storage-agnostic of entity semantics; payloads are opaque JSON
// snapshots and callers filter/order entries per store.
package syncqueue

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/dbx"
)

// Operation is the kind of queued mutation.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Entry is one queued mutation. The id is a local auto-incrementing integer
// used only for ordering and acknowledgement; it is unrelated to entity ids.
type Entry struct {
	ID             int64
	Operation      Operation
	StoreName      string
	Payload        json.RawMessage
	IdempotencyKey string
	EnqueuedAt     time.Time
}

// Queue is the process-wide pending-operation log. Only repositories and the
// reconciliation runner are expected to write to it.
type Queue struct {
	db  dbx.DBTX
	now func() time.Time
}

// New returns a Queue over the sync_queue table in db.
func New(db dbx.DBTX) *Queue {
	return &Queue{db: db, now: time.Now}
}

// Enqueue appends a mutation with a fresh auto-incrementing id and the
// current timestamp. The payload is a full snapshot, not a diff. Create
// operations get a client-generated idempotency key so an interrupted replay
// cannot duplicate the remote record.
//
// Enqueue must never fail silently: a storage failure here means the
// triggering mutation failed end-to-end.
func (q *Queue) Enqueue(ctx context.Context, op Operation, storeName string, payload any) (*Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, common.NewStorageError("enqueue", err)
	}

	var key string
	if op == OpCreate {
		key, err = common.RandHex(16)
		if err != nil {
			return nil, common.NewStorageError("enqueue", err)
		}
	}

	entry := &Entry{
		Operation:      op,
		StoreName:      storeName,
		Payload:        raw,
		IdempotencyKey: key,
		EnqueuedAt:     q.now().UTC(),
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO sync_queue (operation, store_name, payload, idempotency_key, enqueued_at) VALUES (?, ?, ?, ?, ?)`,
		string(entry.Operation), entry.StoreName, string(entry.Payload), entry.IdempotencyKey,
		entry.EnqueuedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, common.NewStorageError("enqueue", err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return nil, common.NewStorageError("enqueue", err)
	}
	return entry, nil
}

func (q *Queue) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var result []Entry
	for rows.Next() {
		var (
			e       Entry
			op      string
			payload string
			at      string
		)
		if err := rows.Scan(&e.ID, &op, &e.StoreName, &payload, &e.IdempotencyKey, &at); err != nil {
			return nil, common.NewStorageError("pending", err)
		}
		e.Operation = Operation(op)
		e.Payload = json.RawMessage(payload)
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.EnqueuedAt = ts
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("pending", err)
	}
	return result, nil
}

// Pending returns every queued entry in enqueue order across all stores.
func (q *Queue) Pending(ctx context.Context) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, operation, store_name, payload, idempotency_key, enqueued_at FROM sync_queue ORDER BY id`)
	if err != nil {
		return nil, common.NewStorageError("pending", err)
	}
	defer rows.Close()
	return q.scanEntries(rows)
}

// PendingFor returns the queued entries for one store, in strict enqueue
// order. This is the replay order the reconciliation runner must honor.
func (q *Queue) PendingFor(ctx context.Context, storeName string) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, operation, store_name, payload, idempotency_key, enqueued_at FROM sync_queue WHERE store_name = ? ORDER BY id`,
		storeName)
	if err != nil {
		return nil, common.NewStorageError("pending", err)
	}
	defer rows.Close()
	return q.scanEntries(rows)
}

// Ack removes a single entry by queue id. Called only after the entry's
// remote operation durably succeeded.
func (q *Queue) Ack(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return common.NewStorageError("ack", err)
	}
	return nil
}

// Count returns the number of queued entries for one store; with an empty
// storeName it counts the whole queue. Surfaced to the UI as the
// pending-sync indicator.
func (q *Queue) Count(ctx context.Context, storeName string) (int, error) {
	var (
		n   int
		err error
	)
	if storeName == "" {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue WHERE store_name = ?`, storeName).Scan(&n)
	}
	if err != nil {
		return 0, common.NewStorageError("count", err)
	}
	return n, nil
}

// Clear drops every queued entry. Used on logout/account switch together
// with clearing the entity stores.
func (q *Queue) Clear(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
		return common.NewStorageError("clear", err)
	}
	return nil
}
