package repositories

import (
	"context"

	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
)

// BankConnectionRepository stores linked banks
type BankConnectionRepository interface {
	Create(ctx context.Context, conn *entities.BankConnection) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.BankConnection, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BankConnection, error)
	Deactivate(ctx context.Context, userID, id uuid.UUID) error
	TouchSynced(ctx context.Context, id uuid.UUID) error
}

// BankDataSource is the open-banking provider accounts and transactions are read from.
type BankDataSource interface {
	Banks() []entities.Bank
	GetAccounts(ctx context.Context, identity string) ([]*entities.BankAccount, error)
	GetTransactions(ctx context.Context, accountID string) ([]*entities.BankTransaction, error)
}
