package repositories

import (
	"context"

	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.UserStatus) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
}
