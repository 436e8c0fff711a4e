package repositories

import (
	"context"

	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
)

// ContactRepository defines contact form storage
type ContactRepository interface {
	Create(ctx context.Context, contact *entities.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error)
	List(ctx context.Context, filter entities.ContactFilter) ([]*entities.Contact, int64, error)
	MarkResponded(ctx context.Context, id, respondedBy uuid.UUID, response string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
