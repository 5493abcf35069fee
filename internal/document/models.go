package document

import "time"

// DocType classifies a document version. The wire value is the short code;
// DisplayName is what the editor UI shows.
type DocType string

const (
	DocTypeHLD DocType = "HLD"
	DocTypeLLD DocType = "LLD"
	DocTypeTDD DocType = "TDD"
)

func (t DocType) DisplayName() string {
	switch t {
	case DocTypeHLD:
		return "High-Level Design"
	case DocTypeLLD:
		return "Low-Level Design"
	case DocTypeTDD:
		return "Technical Design Document"
	}
	return string(t)
}

// StoredDocument is the durable entity representing one document's full
// lineage. Versions are in chronological save order; the latest version is
// the last element and the list is never empty after creation.
type StoredDocument struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"createdAt"`
	Versions   []DocumentVersion `json:"versions"`
	SharedWith []string          `json:"sharedWith,omitempty"`
}

// DocumentVersion is one historical snapshot of a document's title, type
// and sections.
type DocumentVersion struct {
	Title            string            `json:"title"`
	DocType          DocType           `json:"docType"`
	Sections         []DocumentSection `json:"sections"`
	ContextFileNames []string          `json:"contextFileNames,omitempty"`
	SavedAt          time.Time         `json:"savedAt"`
	SavedBy          string            `json:"savedBy,omitempty"`
}

// DocumentSection is one titled block of markdown content within a version.
// Sections have no identity of their own; they are addressed by position.
type DocumentSection struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Comments []Comment `json:"comments,omitempty"`
}

// Comment is immutable once created; there is no edit or delete.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// GeneratedDocument is the value produced by the generation component. The
// caller wraps it into a DocumentVersion before the repository save.
type GeneratedDocument struct {
	Title            string            `json:"title"`
	DocType          DocType           `json:"docType"`
	Sections         []DocumentSection `json:"sections"`
	ContextFileNames []string          `json:"contextFileNames,omitempty"`
}

// Latest returns the most recent version. Callers must only invoke it on a
// document that satisfies the non-empty-versions invariant.
func (d StoredDocument) Latest() DocumentVersion {
	return d.Versions[len(d.Versions)-1]
}

// SortTime is the recency key used for listing: the latest version's
// savedAt, falling back to createdAt when the version carries no savedAt.
func (d StoredDocument) SortTime() time.Time {
	if len(d.Versions) == 0 {
		return d.CreatedAt
	}
	if at := d.Latest().SavedAt; !at.IsZero() {
		return at
	}
	return d.CreatedAt
}

// Version builds a DocumentVersion from a generated document.
func (g GeneratedDocument) Version(savedBy string, savedAt time.Time) DocumentVersion {
	return DocumentVersion{
		Title:            g.Title,
		DocType:          g.DocType,
		Sections:         g.Sections,
		ContextFileNames: g.ContextFileNames,
		SavedAt:          savedAt,
		SavedBy:          savedBy,
	}
}
