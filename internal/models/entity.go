// Package models defines the entity payloads mirrored by the local store and
// the identity rules shared by the repositories and the reconciliation runner.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Names of the local collections. Each maps to one table in the local store
// and is the routing key for pending-operation queue entries.
const (
	StoreContacts     = "contacts"
	StoreKeystones    = "keystones"
	StoreInteractions = "interactions"
	StoreProfile      = "profile"
)

// TempIDPrefix marks locally synthesized identifiers. A record carries a
// temp id only between an offline create and its successful reconciliation,
// after which the server-assigned durable id replaces it.
const TempIDPrefix = "temp_"

// NewTempID synthesizes a temporary identifier for an offline-created record.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was synthesized locally and has not yet been
// replaced by a durable server-assigned id.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Entity is implemented by pointers to every payload type kept in the local
// store. It exposes just enough identity and timestamp plumbing for the
// generic repository to stay ignorant of concrete fields.
type Entity interface {
	EntityID() string
	SetEntityID(id string)

	// StampCreated sets the creation timestamp; used when a record is
	// synthesized locally while offline.
	StampCreated(now time.Time)

	// Touch sets the last-modified timestamp.
	Touch(now time.Time)
}

// Ptr constrains a type parameter to "pointer to an entity payload", which
// lets generic code allocate a T and still call Entity methods on it.
type Ptr[T any] interface {
	*T
	Entity
}
