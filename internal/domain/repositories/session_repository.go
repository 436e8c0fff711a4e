package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
)

// SessionRepository defines per-device session operations
type SessionRepository interface {
	// FindTrusted returns the session for (userID, deviceID) only when it is trusted and active.
	FindTrusted(ctx context.Context, userID uuid.UUID, deviceID string) (*entities.Session, error)
	// Upsert creates or updates the single session of (UserID, DeviceID).
	Upsert(ctx context.Context, in *entities.SessionUpsert) (*entities.Session, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error)
	Untrust(ctx context.Context, userID uuid.UUID, deviceID string) error
	Deactivate(ctx context.Context, userID uuid.UUID, deviceID string) error
	DeactivateAll(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
