// Package kv defines the durable key-value store the questionnaire persists
// into, plus small helpers shared by every driver.
//
// Drivers live in subpackages (memory, file, sqlite, postgres, s3) and all
// satisfy Store. Values are opaque strings; callers own their encoding.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by drivers once Close has been called.
var ErrClosed = errors.New("kv: store closed")

// Store is a string-keyed, string-valued persistent store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Clear removes every key owned by the store.
	Clear(ctx context.Context) error
	Close() error
}

// Batcher is implemented by drivers that can write several keys atomically.
type Batcher interface {
	SetMany(ctx context.Context, entries map[string]string) error
}

// SetAll writes entries through SetMany when the store supports it, falling
// back to sequential Set calls in sorted key order otherwise.
func SetAll(ctx context.Context, s Store, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	if b, ok := s.(Batcher); ok {
		return b.SetMany(ctx, entries)
	}
	for _, k := range SortedKeys(entries) {
		if err := s.Set(ctx, k, entries[k]); err != nil {
			return err
		}
	}
	return nil
}
