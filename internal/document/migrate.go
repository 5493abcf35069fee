package document

import (
	"encoding/json"
	"time"
)

// legacyRecord is the flat, pre-versioning document shape. Records written
// by old clients carry title/sections/docType at the top level instead of a
// versions list.
type legacyRecord struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	DocType          DocType           `json:"docType"`
	Sections         []DocumentSection `json:"sections"`
	ContextFileNames []string          `json:"contextFileNames,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastModifiedBy   string            `json:"lastModifiedBy,omitempty"`
	SharedWith       []string          `json:"sharedWith,omitempty"`
}

// MigrateRecord converts one raw persisted record into the canonical
// versioned shape. The canonical decode is attempted first; a record
// without a non-empty versions list is treated as legacy and a single
// version is synthesized from its flat fields (savedAt = createdAt,
// savedBy = lastModifiedBy). Migration is idempotent: feeding the output
// back in returns it unchanged.
//
// A decode error means the record itself is unreadable; callers treat that
// as collection-level corruption.
func MigrateRecord(raw json.RawMessage) (StoredDocument, error) {
	var doc StoredDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return StoredDocument{}, err
	}
	if len(doc.Versions) > 0 {
		return doc, nil
	}

	var legacy legacyRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return StoredDocument{}, err
	}
	return StoredDocument{
		ID:        legacy.ID,
		CreatedAt: legacy.CreatedAt,
		Versions: []DocumentVersion{{
			Title:            legacy.Title,
			DocType:          legacy.DocType,
			Sections:         legacy.Sections,
			ContextFileNames: legacy.ContextFileNames,
			SavedAt:          legacy.CreatedAt,
			SavedBy:          legacy.LastModifiedBy,
		}},
		SharedWith: legacy.SharedWith,
	}, nil
}
