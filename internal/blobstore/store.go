package blobstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no blob exists under the key.
	ErrNotFound = errors.New("blob not found")
	// ErrQuotaExceeded is returned by Set when the write would exceed the
	// store's capacity. The previously stored blob (if any) is untouched.
	ErrQuotaExceeded = errors.New("store quota exceeded")
)

// Store is a raw key→blob persistence abstraction. Each Set replaces the
// whole blob under the key atomically; readers never observe a partial
// write. Capacity is finite and exhaustion is reported, never truncated.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
