// Package openbanking provides the bank data the credit engine reads.
// Only a fixed in-memory provider exists; a real aggregator would sit behind the same interface.
package openbanking

import (
	"context"

	"p2p-lending.backend/internal/domain/entities"
)

// Link credentials and challenge code accepted by the mock provider
const (
	MockUsername = "demo_user"
	MockPassword = "demo_pass"
	MockLinkOTP  = "123456"
)

// MockSource serves the fixed dataset. Callers receive copies.
type MockSource struct{}

func NewMockSource() *MockSource {
	return &MockSource{}
}

// Banks lists the supported institutions
func (s *MockSource) Banks() []entities.Bank {
	out := make([]entities.Bank, len(vnBanks))
	copy(out, vnBanks)
	return out
}

// FindBank looks a bank up by id
func (s *MockSource) FindBank(bankID string) (entities.Bank, bool) {
	for _, b := range vnBanks {
		if b.ID == bankID {
			return b, true
		}
	}
	return entities.Bank{}, false
}

// CheckCredentials reports whether the bank login is accepted
func (s *MockSource) CheckCredentials(username, password string) bool {
	return username == MockUsername && password == MockPassword
}

// VerifyOTP reports whether the link challenge code is accepted
func (s *MockSource) VerifyOTP(otp string) bool {
	return otp == MockLinkOTP
}

// GetAccounts returns the accounts of an identity. Unknown identities have none.
func (s *MockSource) GetAccounts(ctx context.Context, identity string) ([]*entities.BankAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := mockAccounts[identity]
	out := make([]*entities.BankAccount, 0, len(src))
	for i := range src {
		acc := src[i]
		out = append(out, &acc)
	}
	return out, nil
}

// GetTransactions returns the transactions of an account. Unknown accounts have none.
func (s *MockSource) GetTransactions(ctx context.Context, accountID string) ([]*entities.BankTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := mockTransactions[accountID]
	out := make([]*entities.BankTransaction, 0, len(src))
	for i := range src {
		tx := src[i]
		out = append(out, &tx)
	}
	return out, nil
}
