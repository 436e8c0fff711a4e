package repositories

import (
	"context"
	"io"

	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
)

// FileRepository stores uploaded file metadata
type FileRepository interface {
	Create(ctx context.Context, file *entities.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.File, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.File, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// FileStorage holds the bytes of uploaded files
type FileStorage interface {
	// Put stores r under key and returns the URL clients fetch it from.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	Provider() string
}
