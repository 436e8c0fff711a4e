package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/models"
	"p2p-lending.backend/pkg/utils"
)

// BankConnectionRepository implements linked-bank storage
type BankConnectionRepository struct {
	db *gorm.DB
}

// NewBankConnectionRepository creates a new bank connection repository
func NewBankConnectionRepository(db *gorm.DB) *BankConnectionRepository {
	return &BankConnectionRepository{db: db}
}

// Create stores a new connection. AccessToken must already be sealed.
func (r *BankConnectionRepository) Create(ctx context.Context, conn *entities.BankConnection) error {
	conn.ID = utils.EnsureID(conn.ID)
	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now

	m := &models.BankConnection{
		ID:              conn.ID,
		UserID:          conn.UserID,
		InstitutionID:   conn.InstitutionID,
		InstitutionName: conn.InstitutionName,
		ItemID:          conn.ItemID,
		AccessToken:     conn.AccessToken,
		AccountIDs:      pq.StringArray(conn.AccountIDs),
		IsActive:        conn.IsActive,
		LastSyncedAt:    conn.LastSyncedAt.Ptr(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	// is_active has a database default; an explicit false must still be written.
	return GetDB(ctx, r.db).Select("*").Create(m).Error
}

// GetByID gets a connection by ID
func (r *BankConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.BankConnection, error) {
	var m models.BankConnection
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toBankConnectionEntity(&m), nil
}

// ListActiveByUser returns active connections, oldest first
func (r *BankConnectionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BankConnection, error) {
	var rows []models.BankConnection
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	conns := make([]*entities.BankConnection, 0, len(rows))
	for i := range rows {
		conns = append(conns, toBankConnectionEntity(&rows[i]))
	}
	return conns, nil
}

// Deactivate disconnects one of the user's banks
func (r *BankConnectionRepository) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.BankConnection{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// TouchSynced records that the connection's data was just read
func (r *BankConnectionRepository) TouchSynced(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return GetDB(ctx, r.db).Model(&models.BankConnection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_synced_at": now,
			"updated_at":     now,
		}).Error
}

func toBankConnectionEntity(m *models.BankConnection) *entities.BankConnection {
	return &entities.BankConnection{
		ID:              m.ID,
		UserID:          m.UserID,
		InstitutionID:   m.InstitutionID,
		InstitutionName: m.InstitutionName,
		ItemID:          m.ItemID,
		AccessToken:     m.AccessToken,
		AccountIDs:      []string(m.AccountIDs),
		IsActive:        m.IsActive,
		LastSyncedAt:    null.TimeFromPtr(m.LastSyncedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
