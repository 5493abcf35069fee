package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/document"
)

func testDoc(id string, savedAt time.Time) document.StoredDocument {
	return document.StoredDocument{
		ID:        id,
		CreatedAt: savedAt,
		Versions: []document.DocumentVersion{{
			Title:    "Design " + id,
			DocType:  document.DocTypeHLD,
			Sections: []document.DocumentSection{{Title: "Overview", Content: "text"}},
			SavedAt:  savedAt,
		}},
	}
}

func TestRepository_EmptyStore(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	docs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	d := testDoc("d1", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, d))

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, d, docs[0])
}

func TestRepository_UpsertNotDuplicate(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testDoc("d1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, repo.Save(ctx, testDoc("d2", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))))

	updated := testDoc("d1", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, updated))

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "d1", docs[0].ID) // now most recent
	require.Equal(t, updated.Latest().SavedAt, docs[0].Latest().SavedAt)
}

func TestRepository_RecencyOrdering(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	a := testDoc("a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := testDoc("b", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, []string{docs[0].ID, docs[1].ID})
}

func TestRepository_SortFallsBackToCreatedAt(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	noSavedAt := document.StoredDocument{
		ID:        "x",
		CreatedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Versions:  []document.DocumentVersion{{Title: "T", DocType: document.DocTypeLLD}},
	}
	older := testDoc("y", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, noSavedAt))
	require.NoError(t, repo.Save(ctx, older))

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "x", docs[0].ID)
}

func TestRepository_SaveEmptyVersions(t *testing.T) {
	store := blobstore.NewMemoryStore(0)
	repo := New(store)
	ctx := context.Background()

	err := repo.Save(ctx, document.StoredDocument{ID: "bad"})
	require.ErrorIs(t, err, ErrEmptyVersions)

	// rejected before any I/O
	_, err = store.Get(ctx, CollectionKey)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := New(blobstore.NewMemoryStore(0))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testDoc("d1", time.Now().UTC())))
	require.NoError(t, repo.Delete(ctx, "d1"))

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, docs)

	// unknown id is a no-op, not an error
	require.NoError(t, repo.Delete(ctx, "ghost"))
}

func TestRepository_MigratesLegacyOnRead(t *testing.T) {
	store := blobstore.NewMemoryStore(0)
	repo := New(store)
	ctx := context.Background()

	legacy := `[{"id":"old1","title":"Legacy Doc","docType":"TDD","sections":[{"title":"S","content":"c"}],"createdAt":"2023-11-05T08:30:00Z","lastModifiedBy":"alice"}]`
	require.NoError(t, store.Set(ctx, CollectionKey, []byte(legacy)))

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Len(t, docs[0].Versions, 1)
	require.Equal(t, "Legacy Doc", docs[0].Latest().Title)
	require.Equal(t, "alice", docs[0].Latest().SavedBy)
}

func TestRepository_LegacyRecordsKeepShapeUntilResaved(t *testing.T) {
	store := blobstore.NewMemoryStore(0)
	repo := New(store)
	ctx := context.Background()

	legacy := `[{"id":"old1","title":"Legacy Doc","docType":"TDD","sections":[],"createdAt":"2023-11-05T08:30:00Z"}]`
	require.NoError(t, store.Set(ctx, CollectionKey, []byte(legacy)))

	// saving an unrelated document must not rewrite the legacy record
	require.NoError(t, repo.Save(ctx, testDoc("new1", time.Now().UTC())))

	raw, err := store.Get(ctx, CollectionKey)
	require.NoError(t, err)
	var records []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 2)

	var probe struct {
		ID       string            `json:"id"`
		Versions []json.RawMessage `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(records[1], &probe))
	require.Equal(t, "old1", probe.ID)
	require.Empty(t, probe.Versions, "legacy record still flat on disk")
}

func TestRepository_CorruptedStoreRecovery(t *testing.T) {
	store := blobstore.NewMemoryStore(0)
	repo := New(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionKey, []byte("{{{not json")))

	docs, err := repo.ListAll(ctx)
	require.ErrorIs(t, err, ErrCorrupted)
	require.Empty(t, docs)

	// the store was cleared: the next read starts clean without re-raising
	docs, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestRepository_QuotaLeavesPriorStateUntouched(t *testing.T) {
	store := blobstore.NewMemoryStore(600)
	repo := New(store)
	ctx := context.Background()

	small := testDoc("small", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, small))

	big := testDoc("big", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	big.Versions[0].Sections[0].Content = string(make([]byte, 2000))
	err := repo.Save(ctx, big)
	require.ErrorIs(t, err, blobstore.ErrQuotaExceeded)

	docs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "small", docs[0].ID)
}
