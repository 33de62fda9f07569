// Package common defines shared constants and the error taxonomy used across
// the sync engine. Callers should use errors.Is / errors.As to match these
// values rather than comparing strings.
package common

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a requested id is absent. On the read path it
// means the record was found neither remotely nor in the local cache; on the
// offline write path it means an update targeted a never-cached record.
var ErrNotFound = errors.New("not found")

// StorageError wraps a failure of the local persistent store: the database
// is unavailable or a statement/transaction failed. It is fatal to the
// requested operation and is never retried automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err with the failed storage operation name.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// RemoteError means the remote service was reached but rejected the request
// (validation, auth, server error). Reads downgrade to a cache fallback;
// writes propagate it to the caller immediately.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote rejected request: status %d", e.Status)
	}
	return fmt.Sprintf("remote rejected request: status %d: %s", e.Status, e.Message)
}
