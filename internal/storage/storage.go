// Package storage holds the key-value blob stores that session state is
// persisted to. Every driver treats values as opaque bytes.
package storage

import (
	"context"
	"errors"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store loads and saves named byte blobs. Load reports ok=false for a key that
// has never been saved (or was deleted); that is not an error.
type Store interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
