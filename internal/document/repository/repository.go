package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/document"
	"github.com/docforge/docforge/backend/go-services/pkg/logger"
	"github.com/docforge/docforge/backend/go-services/pkg/metrics"
)

// CollectionKey is the fixed blob key holding the whole document collection.
const CollectionKey = "documents"

var (
	// ErrEmptyVersions rejects a save whose document has no versions. The
	// check runs before any I/O.
	ErrEmptyVersions = errors.New("document has no versions")
	// ErrCorrupted means the stored collection blob could not be parsed.
	// The store has been cleared by the time this is returned; losing the
	// data is preferred over returning inconsistent results.
	ErrCorrupted = errors.New("document collection corrupted")
)

// Repository persists the document collection as one JSON array blob under
// a fixed key. Writing the whole collection in one Set keeps upsert and
// delete atomic at collection granularity without multi-key transactions.
// Exactly one active writer per collection is assumed; concurrent sessions
// resolve last-writer-wins at blob granularity.
type Repository struct {
	store blobstore.Store
	key   string
}

func New(store blobstore.Store) *Repository {
	return &Repository{store: store, key: CollectionKey}
}

// ListAll returns every stored document, migrated to the canonical
// versioned shape and sorted most recently saved first. On an unparseable
// blob the store is cleared and ErrCorrupted returned together with an
// empty list; the next call starts from an empty collection.
func (r *Repository) ListAll(ctx context.Context) ([]document.StoredDocument, error) {
	records, err := r.load(ctx)
	if err != nil {
		return []document.StoredDocument{}, err
	}

	docs := make([]document.StoredDocument, 0, len(records))
	for _, rec := range records {
		d, err := document.MigrateRecord(rec)
		if err != nil {
			r.clear(ctx)
			return []document.StoredDocument{}, ErrCorrupted
		}
		docs = append(docs, d)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].SortTime().After(docs[j].SortTime())
	})
	return docs, nil
}

// Save upserts doc: any record with the same id is dropped and doc is
// prepended, then the full collection is written back in a single atomic
// Set. Other records keep their stored shape; a legacy record becomes
// canonical only when it is itself re-saved. On quota exhaustion the prior
// on-disk state is untouched.
func (r *Repository) Save(ctx context.Context, doc document.StoredDocument) error {
	if len(doc.Versions) == 0 {
		return ErrEmptyVersions
	}

	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := dropByID(records, doc.ID)
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return r.write(ctx, append([]json.RawMessage{blob}, kept...))
}

// Delete removes the record with the given id, if present, and rewrites
// the collection. Deleting an unknown id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := dropByID(records, id)
	if len(kept) == len(records) {
		return nil
	}
	return r.write(ctx, kept)
}

func (r *Repository) load(ctx context.Context) ([]json.RawMessage, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read collection %q: %w", r.key, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		r.clear(ctx)
		return nil, ErrCorrupted
	}
	return records, nil
}

func (r *Repository) write(ctx context.Context, records []json.RawMessage) error {
	blob, err := json.Marshal(records)
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

func (r *Repository) clear(ctx context.Context) {
	metrics.CorruptionResets.WithLabelValues(r.key).Inc()
	logger.Errorf("collection %q unparseable, clearing store", r.key)
	if err := r.store.Delete(ctx, r.key); err != nil {
		logger.Errorf("clear collection %q: %v", r.key, err)
	}
}

func dropByID(records []json.RawMessage, id string) []json.RawMessage {
	kept := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec, &probe); err == nil && probe.ID == id {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}
