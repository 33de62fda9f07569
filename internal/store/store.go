// Package store implements the local persistent store: one durable keyed
// table per entity collection, holding the JSON payload of each record.
// The store has no network awareness; repositories layer connectivity on top.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/dbx"
	"github.com/rapport-app/rapport/internal/models"
)

// Store is a keyed collection of one entity type. Exactly one record per id
// exists at any time; Save is a last-write-wins upsert.
//
// The name must be one of the models.Store* constants; it is interpolated
// into SQL as a table name and never comes from user input.
type Store[T any, PT models.Ptr[T]] struct {
	db   *sql.DB
	name string
}

// New returns a Store bound to the named collection table.
func New[T any, PT models.Ptr[T]](db *sql.DB, name string) *Store[T, PT] {
	return &Store[T, PT]{db: db, name: name}
}

// Name returns the collection name.
func (s *Store[T, PT]) Name() string { return s.name }

func (s *Store[T, PT]) upsert(ctx context.Context, db dbx.DBTX, item PT) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return common.NewStorageError("save", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`, s.name)
	if _, err := db.ExecContext(ctx, query, item.EntityID(), string(payload), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return common.NewStorageError("save", err)
	}
	return nil
}

// Save upserts one record by id. Storage failures are never swallowed.
func (s *Store[T, PT]) Save(ctx context.Context, item PT) error {
	return s.upsert(ctx, s.db, item)
}

// SaveAll upserts every record inside a single transaction: either the whole
// batch lands or none of it does.
func (s *Store[T, PT]) SaveAll(ctx context.Context, items []PT) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, item := range items {
			if err := s.upsert(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the record with the given id, or nil if absent. Absence is not
// an error; callers that need one should map nil to common.ErrNotFound.
func (s *Store[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE id = ?`, s.name)
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewStorageError("get", err)
	}

	item := PT(new(T))
	if err := json.Unmarshal(payload, item); err != nil {
		return nil, common.NewStorageError("get", err)
	}
	return item, nil
}

// GetAll returns every record in the collection. Order is unspecified;
// callers sort as needed.
func (s *Store[T, PT]) GetAll(ctx context.Context) ([]PT, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s`, s.name)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.NewStorageError("getAll", err)
	}
	defer rows.Close()

	var result []PT
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, common.NewStorageError("getAll", err)
		}
		item := PT(new(T))
		if err := json.Unmarshal(payload, item); err != nil {
			return nil, common.NewStorageError("getAll", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("getAll", err)
	}
	return result, nil
}

// Delete removes the record with the given id. Deleting a non-existent id is
// a no-op, not an error.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.name)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return common.NewStorageError("delete", err)
	}
	return nil
}

// Clear empties the collection. Used on logout/account switch.
func (s *Store[T, PT]) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.name)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return common.NewStorageError("clear", err)
	}
	return nil
}
