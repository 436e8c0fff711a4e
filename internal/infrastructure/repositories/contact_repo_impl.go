package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/models"
	"p2p-lending.backend/pkg/utils"
)

// ContactRepository implements contact form storage
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create stores a new contact message
func (r *ContactRepository) Create(ctx context.Context, contact *entities.Contact) error {
	contact.ID = utils.EnsureID(contact.ID)
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	m := &models.Contact{
		ID:        contact.ID,
		Email:     contact.Email,
		FullName:  contact.FullName,
		Phone:     contact.Phone.Ptr(),
		Message:   contact.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error) {
	var m models.Contact
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toContactEntity(&m), nil
}

// List returns one page of contacts, newest first
func (r *ContactRepository) List(ctx context.Context, filter entities.ContactFilter) ([]*entities.Contact, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Contact{})
	if filter.IsResponded != nil {
		query = query.Where("is_responded = ?", *filter.IsResponded)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []models.Contact
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	contacts := make([]*entities.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, toContactEntity(&rows[i]))
	}
	return contacts, total, nil
}

// MarkResponded stores the admin's reply. Already answered contacts are left untouched.
func (r *ContactRepository) MarkResponded(ctx context.Context, id, respondedBy uuid.UUID, response string) error {
	now := time.Now()
	result := GetDB(ctx, r.db).Model(&models.Contact{}).
		Where("id = ? AND is_responded = ?", id, false).
		Updates(map[string]interface{}{
			"response":     response,
			"is_responded": true,
			"responded_at": now,
			"responded_by": respondedBy,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes a contact
func (r *ContactRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toContactEntity(m *models.Contact) *entities.Contact {
	c := &entities.Contact{
		ID:          m.ID,
		Email:       m.Email,
		FullName:    m.FullName,
		Phone:       null.StringFromPtr(m.Phone),
		Message:     m.Message,
		Response:    null.StringFromPtr(m.Response),
		IsResponded: m.IsResponded,
		RespondedAt: null.TimeFromPtr(m.RespondedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.RespondedBy != nil {
		c.RespondedBy = uuid.NullUUID{UUID: *m.RespondedBy, Valid: true}
	}
	return c
}
