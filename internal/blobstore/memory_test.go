package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("hello")))
	b, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), b)

	// delete is idempotent
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Quota(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("12345")))
	err := s.Set(ctx, "b", []byte("123456789")) // 5+9 > 10
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// prior state untouched
	b, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("12345"), b)
	_, err = s.Get(ctx, "b")
	require.ErrorIs(t, err, ErrNotFound)

	// replacing an existing key counts only the new size for that key
	require.NoError(t, s.Set(ctx, "a", []byte("1234567890")))
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))
	b, err := s.Get(ctx, "k")
	require.NoError(t, err)
	b[0] = 'x'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}
