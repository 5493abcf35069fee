package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/backend/go-services/internal/document"
	"github.com/docforge/docforge/backend/go-services/internal/document/diagram"
	"github.com/docforge/docforge/backend/go-services/internal/document/rank"
	"github.com/docforge/docforge/backend/go-services/internal/document/repository"
	"github.com/docforge/docforge/backend/go-services/pkg/metrics"
)

var ErrNotFound = errors.New("document not found")

// Service defines the document operations used by the handler layer.
//
// Editing sessions are the caller's responsibility: the caller takes a
// snapshot from ListAll, builds a candidate with the pure mutators in the
// document package, and either discards it or commits it through Save.
// AppendComment and PatchDiagram are the two exceptions — both persist
// immediately, outside any draft session.
type Service interface {
	ListAll(ctx context.Context) ([]document.StoredDocument, error)
	Get(ctx context.Context, id string) (document.StoredDocument, error)
	Create(ctx context.Context, gen document.GeneratedDocument, userID string) (document.StoredDocument, error)
	Save(ctx context.Context, doc document.StoredDocument) error
	SaveRevision(ctx context.Context, id string, gen document.GeneratedDocument, userID string) (document.StoredDocument, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]rank.Match, error)
	AppendComment(ctx context.Context, id string, sectionIndex int, userID, content string) (document.StoredDocument, error)
	PatchDiagram(ctx context.Context, id string, sectionIndex, blockIndex int, body string) (document.StoredDocument, error)
}

// NewService returns a Service over the given repository.
func NewService(repo *repository.Repository) Service {
	return &docService{repo: repo}
}

type docService struct {
	repo *repository.Repository
}

func (s *docService) ListAll(ctx context.Context) ([]document.StoredDocument, error) {
	return s.repo.ListAll(ctx)
}

func (s *docService) Get(ctx context.Context, id string) (document.StoredDocument, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return document.StoredDocument{}, err
	}
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return document.StoredDocument{}, ErrNotFound
}

// Create wraps a generated document into a stored document with a single
// first version and persists it.
func (s *docService) Create(ctx context.Context, gen document.GeneratedDocument, userID string) (document.StoredDocument, error) {
	now := time.Now().UTC()
	doc := document.StoredDocument{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Versions:  []document.DocumentVersion{gen.Version(userID, now)},
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return document.StoredDocument{}, err
	}
	return doc, nil
}

func (s *docService) Save(ctx context.Context, doc document.StoredDocument) error {
	return s.repo.Save(ctx, doc)
}

// SaveRevision appends a full-replacement snapshot (e.g. from the assistant
// component) as a new latest version, keeping the prior versions restorable.
// Ordinary edit-session saves go through Save and overwrite the latest
// version in place.
func (s *docService) SaveRevision(ctx context.Context, id string, gen document.GeneratedDocument, userID string) (document.StoredDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return document.StoredDocument{}, err
	}
	doc = document.AppendVersion(doc, gen.Version(userID, time.Now().UTC()))
	if err := s.repo.Save(ctx, doc); err != nil {
		return document.StoredDocument{}, err
	}
	return doc, nil
}

func (s *docService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *docService) Search(ctx context.Context, query string) ([]rank.Match, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	metrics.Searches.Inc()
	return rank.Rank(docs, query), nil
}

// AppendComment adds a comment to the section at sectionIndex of the
// latest version and persists the result immediately. An out-of-range
// section index leaves the document as is.
func (s *docService) AppendComment(ctx context.Context, id string, sectionIndex int, userID, content string) (document.StoredDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return document.StoredDocument{}, err
	}
	updated := document.AppendComment(doc, sectionIndex, document.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.repo.Save(ctx, updated); err != nil {
		return document.StoredDocument{}, err
	}
	return updated, nil
}

// PatchDiagram replaces the body of the blockIndex-th mermaid block inside
// the section at sectionIndex and persists the result immediately. The
// block index is positional; it aborts with diagram.ErrBlockOutOfRange when
// no such block exists, leaving the document untouched.
func (s *docService) PatchDiagram(ctx context.Context, id string, sectionIndex, blockIndex int, body string) (document.StoredDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return document.StoredDocument{}, err
	}
	latest := doc.Latest()
	if sectionIndex < 0 || sectionIndex >= len(latest.Sections) {
		return document.StoredDocument{}, ErrNotFound
	}
	patched, err := diagram.PatchBlock(latest.Sections[sectionIndex].Content, blockIndex, body)
	if err != nil {
		return document.StoredDocument{}, err
	}
	updated := document.SetSectionContent(doc, sectionIndex, patched)
	if err := s.repo.Save(ctx, updated); err != nil {
		return document.StoredDocument{}, err
	}
	return updated, nil
}
