package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/models"
	"p2p-lending.backend/pkg/utils"
)

// FileRepository implements uploaded file metadata storage
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create stores file metadata
func (r *FileRepository) Create(ctx context.Context, file *entities.File) error {
	file.ID = utils.EnsureID(file.ID)
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	m := &models.File{
		ID:           file.ID,
		UserID:       file.UserID,
		OriginalName: file.OriginalName,
		FileType:     file.FileType,
		FileSize:     file.FileSize,
		FileURL:      file.FileURL,
		StorageKey:   file.StorageKey,
		Provider:     file.Provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a file by ID
func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.File, error) {
	var m models.File
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toFileEntity(&m), nil
}

// FindByIDs returns the files that exist among ids. Missing ids are skipped.
func (r *FileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.File, error) {
	if len(ids) == 0 {
		return []*entities.File{}, nil
	}
	var rows []models.File
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	files := make([]*entities.File, 0, len(rows))
	for i := range rows {
		files = append(files, toFileEntity(&rows[i]))
	}
	return files, nil
}

// DeleteByIDs hard deletes the given files and reports how many rows went away
func (r *FileRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := GetDB(ctx, r.db).Where("id IN ?", ids).Delete(&models.File{})
	return result.RowsAffected, result.Error
}

func toFileEntity(m *models.File) *entities.File {
	return &entities.File{
		ID:           m.ID,
		UserID:       m.UserID,
		OriginalName: m.OriginalName,
		FileType:     m.FileType,
		FileSize:     m.FileSize,
		FileURL:      m.FileURL,
		StorageKey:   m.StorageKey,
		Provider:     m.Provider,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
