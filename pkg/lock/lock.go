// Package lock provides keyed critical sections for the booking path. The
// booking service serializes validate-then-insert per (doctor, date) key so
// that concurrent requests for the same slot cannot both observe it as free,
// while bookings for unrelated doctors proceed in parallel.
package lock

import (
	"context"
	"sync"
)

// Locker runs fn inside a critical section scoped to key. Callers for
// different keys never block each other.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is the in-process Locker used by single-instance deployments
// and tests. Entries are reference counted so the map does not grow with
// every key ever seen.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

func (k *KeyedMutex) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
