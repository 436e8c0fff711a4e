package repositories

import (
	"context"

	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
)

// CreditScoreRepository stores immutable scoring snapshots
type CreditScoreRepository interface {
	Create(ctx context.Context, score *entities.CreditScore) error
	GetLatest(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.CreditScore, int64, error)
}
