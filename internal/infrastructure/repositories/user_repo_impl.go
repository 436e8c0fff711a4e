package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/models"
	"p2p-lending.backend/pkg/utils"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	user.ID = utils.EnsureID(user.ID)
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := &models.User{
		ID:           user.ID,
		Email:        user.Email,
		Phone:        user.Phone.Ptr(),
		FullName:     user.FullName,
		Avatar:       user.Avatar.Ptr(),
		Bio:          user.Bio.Ptr(),
		Gender:       string(user.Gender),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Status:       string(user.Status),
		IsVerified:   user.IsVerified,
		CreditScore:  user.CreditScore,
		Balance:      user.Balance,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByPhone gets a user by phone number
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// Update writes the editable profile and role fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"email":      user.Email,
		"full_name":  user.FullName,
		"phone":      user.Phone.Ptr(),
		"avatar":     user.Avatar.Ptr(),
		"bio":        user.Bio.Ptr(),
		"gender":     string(user.Gender),
		"role":       string(user.Role),
		"updated_at": time.Now(),
	}
	return r.updateColumns(ctx, user.ID, updates)
}

// UpdatePassword replaces the password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
}

// UpdateStatus changes the account gate state
func (r *UserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.UserStatus) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
}

// MarkVerified flags the email as verified
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"is_verified": true,
		"updated_at":  time.Now(),
	})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete records who deleted the user, then soft deletes it
func (r *UserRepository) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(&models.User{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	result := db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List returns one page of users, newest first, and the total match count
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.User{})

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []models.User
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(rows))
	for i := range rows {
		users = append(users, toUserEntity(&rows[i]))
	}
	return users, total, nil
}

func toUserEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:           m.ID,
		Email:        m.Email,
		Phone:        null.StringFromPtr(m.Phone),
		FullName:     m.FullName,
		Avatar:       null.StringFromPtr(m.Avatar),
		Bio:          null.StringFromPtr(m.Bio),
		Gender:       entities.Gender(m.Gender),
		PasswordHash: m.PasswordHash,
		Role:         entities.UserRole(m.Role),
		Status:       entities.UserStatus(m.Status),
		IsVerified:   m.IsVerified,
		CreditScore:  m.CreditScore,
		Balance:      m.Balance,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.DeletedBy != nil {
		u.DeletedBy = uuid.NullUUID{UUID: *m.DeletedBy, Valid: true}
	}
	return u
}
