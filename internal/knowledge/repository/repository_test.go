package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/knowledge"
)

func testFile(id string, createdAt time.Time) knowledge.File {
	return knowledge.File{
		ID:        id,
		Name:      id + ".pdf",
		Content:   "extracted text of " + id,
		CreatedAt: createdAt,
		Size:      42,
		Type:      "application/pdf",
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	f := testFile("f1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, f))

	files, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, f, files[0])
}

func TestRepository_UpsertAndOrdering(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	older := testFile("a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := testFile("b", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	// upsert replaces, list length unchanged
	older.Name = "renamed.pdf"
	require.NoError(t, repo.Save(ctx, older))

	files, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "b", files[0].ID) // newest first
	require.Equal(t, "renamed.pdf", files[1].Name)
}

func TestRepository_DeleteUnknownIsNoOp(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testFile("f1", time.Now().UTC())))
	require.NoError(t, repo.Delete(ctx, "ghost"))
	require.NoError(t, repo.Delete(ctx, "f1"))

	files, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestRepository_CorruptedStoreRecovery(t *testing.T) {
	store := blobstore.NewMemoryStore(0)
	repo := New(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionKey, []byte("no json here")))

	files, err := repo.ListAll(ctx)
	require.ErrorIs(t, err, ErrCorrupted)
	require.Empty(t, files)

	files, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestRepository_QuotaSurfaced(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(64))
	ctx := context.Background()

	big := testFile("big", time.Now().UTC())
	big.Content = string(make([]byte, 500))
	err := repo.Save(ctx, big)
	require.ErrorIs(t, err, blobstore.ErrQuotaExceeded)
}
