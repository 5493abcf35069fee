package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/backend/go-services/internal/knowledge"
	"github.com/docforge/docforge/backend/go-services/internal/knowledge/repository"
)

var ErrNotFound = errors.New("knowledge file not found")

// Service defines the knowledge file operations used by the handler layer.
// Upload validation (size and media type limits) happens before content
// reaches this service.
type Service interface {
	ListAll(ctx context.Context) ([]knowledge.File, error)
	Get(ctx context.Context, id string) (knowledge.File, error)
	Save(ctx context.Context, f knowledge.File) (knowledge.File, error)
	Delete(ctx context.Context, id string) error
}

func NewService(repo *repository.Repository) Service {
	return &fileService{repo: repo}
}

type fileService struct {
	repo *repository.Repository
}

func (s *fileService) ListAll(ctx context.Context) ([]knowledge.File, error) {
	return s.repo.ListAll(ctx)
}

func (s *fileService) Get(ctx context.Context, id string) (knowledge.File, error) {
	files, err := s.repo.ListAll(ctx)
	if err != nil {
		return knowledge.File{}, err
	}
	for _, f := range files {
		if f.ID == id {
			return f, nil
		}
	}
	return knowledge.File{}, ErrNotFound
}

// Save assigns an id and creation time to new files and upserts.
func (s *fileService) Save(ctx context.Context, f knowledge.File) (knowledge.File, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.Size == 0 {
		f.Size = int64(len(f.Content))
	}
	if err := s.repo.Save(ctx, f); err != nil {
		return knowledge.File{}, err
	}
	return f, nil
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
