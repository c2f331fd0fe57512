// Package localstate holds the durable per-identity copy of the document
// that is rewritten on every commit.
package localstate

import (
	"context"
	"errors"

	"cv-editor/internal/shared/util"
)

// KeyPrefix namespaces document keys in every backend.
const KeyPrefix = "dn-cv-data"

var ErrNotFound = errors.New("local state not found")

// State is a small durable key-value store.
type State interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key for an identity.
func Key(identity string) string {
	return KeyPrefix + ":" + util.HashIdentity(identity)
}
