package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/knowledge"
	"github.com/docforge/docforge/backend/go-services/pkg/logger"
	"github.com/docforge/docforge/backend/go-services/pkg/metrics"
)

// CollectionKey is the fixed blob key holding the knowledge file collection.
const CollectionKey = "knowledge_files"

// ErrCorrupted means the stored collection blob could not be parsed; the
// store has been cleared by the time this is returned.
var ErrCorrupted = errors.New("knowledge file collection corrupted")

// Repository mirrors the document repository's whole-collection-blob shape,
// minus migration: knowledge files never had a legacy schema.
type Repository struct {
	store blobstore.Store
	key   string
}

func New(store blobstore.Store) *Repository {
	return &Repository{store: store, key: CollectionKey}
}

// ListAll returns every stored file, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]knowledge.File, error) {
	files, err := r.load(ctx)
	if err != nil {
		return []knowledge.File{}, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

// Save upserts by id and writes the full collection back as one atomic
// blob. Quota exhaustion leaves the prior state untouched.
func (r *Repository) Save(ctx context.Context, f knowledge.File) error {
	files, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]knowledge.File, 0, len(files)+1)
	kept = append(kept, f)
	for _, existing := range files {
		if existing.ID != f.ID {
			kept = append(kept, existing)
		}
	}
	return r.write(ctx, kept)
}

// Delete removes the file with the given id; unknown id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	files, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]knowledge.File, 0, len(files))
	for _, f := range files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(files) {
		return nil
	}
	return r.write(ctx, kept)
}

func (r *Repository) load(ctx context.Context) ([]knowledge.File, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read collection %q: %w", r.key, err)
	}
	var files []knowledge.File
	if err := json.Unmarshal(raw, &files); err != nil {
		metrics.CorruptionResets.WithLabelValues(r.key).Inc()
		logger.Errorf("collection %q unparseable, clearing store", r.key)
		if derr := r.store.Delete(ctx, r.key); derr != nil {
			logger.Errorf("clear collection %q: %v", r.key, derr)
		}
		return nil, ErrCorrupted
	}
	return files, nil
}

func (r *Repository) write(ctx context.Context, files []knowledge.File) error {
	blob, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", r.key, err)
	}
	if err := r.store.Set(ctx, r.key, blob); err != nil {
		if errors.Is(err, blobstore.ErrQuotaExceeded) {
			metrics.QuotaRejected.WithLabelValues(r.key).Inc()
		}
		return err
	}
	metrics.CollectionWrites.WithLabelValues(r.key).Inc()
	return nil
}
