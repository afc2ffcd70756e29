// Package storage is the key-value storage area shared by every execution context
// (tab or process) of one storefront, plus the "storage changed" notification between them.
//
// Conflict policy: last write wins. There is no locking across contexts, so two
// read-modify-write cycles on the same key can silently lose one of the writes.
package storage

import (
	"context"
	"time"
)

// Area stores opaque JSON blobs under string keys.
type Area interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Event is emitted after a write. Context is the id of the context that wrote.
type Event struct {
	Key     string
	Value   []byte
	Removed bool
	Context string
	At      time.Time
}

type Listener func(Event)

// Broadcaster fans events out to contexts living in other processes.
type Broadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}
