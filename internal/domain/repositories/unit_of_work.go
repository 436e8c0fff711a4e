package repositories

import (
	"context"
)

// UnitOfWork runs several repository calls atomically.
type UnitOfWork interface {
	// Do executes fn within a transaction scope. Nested calls join the outer transaction.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
