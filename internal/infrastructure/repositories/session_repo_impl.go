package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/models"
	"p2p-lending.backend/pkg/utils"
)

// Columns refreshed when a login lands on an existing (user, device) row.
var sessionUpsertColumns = []string{
	"device_name",
	"device_type",
	"ip_address",
	"user_agent",
	"access_token",
	"refresh_token",
	"is_active",
	"expires_at",
	"updated_at",
}

// SessionRepository implements per-device session storage
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindTrusted returns the active, unexpired trusted session for the device.
// Rows past expires_at are ignored even before the sweep job deletes them.
func (r *SessionRepository) FindTrusted(ctx context.Context, userID uuid.UUID, deviceID string) (*entities.Session, error) {
	var m models.UserSession
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND device_id = ? AND is_trusted = ? AND is_active = ?", userID, deviceID, true, true).
		Where("expires_at > ?", time.Now()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toSessionEntity(&m), nil
}

// Upsert inserts the session or, on a (user_id, device_id) conflict, refreshes it.
// Trust is only ever granted here, never revoked.
func (r *SessionRepository) Upsert(ctx context.Context, in *entities.SessionUpsert) (*entities.Session, error) {
	now := time.Now()
	expiresAt := in.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(entities.SessionLifetime)
	}

	m := &models.UserSession{
		ID:           utils.NewID(),
		UserID:       in.UserID,
		DeviceID:     in.Device.DeviceID,
		DeviceName:   in.Device.DeviceName,
		DeviceType:   string(in.Device.DeviceType),
		IPAddress:    in.Device.IPAddress,
		UserAgent:    in.Device.UserAgent,
		AccessToken:  null.NewString(in.AccessToken, in.AccessToken != "").Ptr(),
		RefreshToken: null.NewString(in.RefreshToken, in.RefreshToken != "").Ptr(),
		IsActive:     true,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	columns := sessionUpsertColumns
	if in.Trust {
		m.IsTrusted = true
		m.TrustedAt = &now
		columns = append(append([]string{}, sessionUpsertColumns...), "is_trusted", "trusted_at")
	}

	db := GetDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}

	var stored models.UserSession
	if err := db.Where("user_id = ? AND device_id = ?", in.UserID, in.Device.DeviceID).First(&stored).Error; err != nil {
		return nil, err
	}
	return toSessionEntity(&stored), nil
}

// ListActive returns the user's active sessions, most recently used first
func (r *SessionRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error) {
	var rows []models.UserSession
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*entities.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, toSessionEntity(&rows[i]))
	}
	return sessions, nil
}

// Untrust clears the trusted flag so the next login on the device needs a code
func (r *SessionRepository) Untrust(ctx context.Context, userID uuid.UUID, deviceID string) error {
	result := GetDB(ctx, r.db).Model(&models.UserSession{}).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Updates(map[string]interface{}{
			"is_trusted": false,
			"trusted_at": nil,
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

// Deactivate ends one device session. A missing session is not an error.
func (r *SessionRepository) Deactivate(ctx context.Context, userID uuid.UUID, deviceID string) error {
	_, err := r.deactivate(GetDB(ctx, r.db).Where("user_id = ? AND device_id = ?", userID, deviceID))
	return err
}

// DeactivateAll ends every active session of the user and reports how many
func (r *SessionRepository) DeactivateAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.deactivate(GetDB(ctx, r.db).Where("user_id = ? AND is_active = ?", userID, true))
}

func (r *SessionRepository) deactivate(scoped *gorm.DB) (int64, error) {
	result := scoped.Model(&models.UserSession{}).Updates(map[string]interface{}{
		"is_active":     false,
		"access_token":  nil,
		"refresh_token": nil,
		"updated_at":    time.Now(),
	})
	return result.RowsAffected, result.Error
}

// DeleteExpired removes sessions whose expiry has passed
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Where("expires_at < ?", now).Delete(&models.UserSession{})
	return result.RowsAffected, result.Error
}

func toSessionEntity(m *models.UserSession) *entities.Session {
	return &entities.Session{
		ID:           m.ID,
		UserID:       m.UserID,
		DeviceID:     m.DeviceID,
		DeviceName:   m.DeviceName,
		DeviceType:   entities.DeviceType(m.DeviceType),
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		AccessToken:  null.StringFromPtr(m.AccessToken),
		RefreshToken: null.StringFromPtr(m.RefreshToken),
		IsTrusted:    m.IsTrusted,
		TrustedAt:    null.TimeFromPtr(m.TrustedAt),
		IsActive:     m.IsActive,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
