package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TransactionDirection tells whether money entered or left an account
type TransactionDirection string

const (
	TransactionIn  TransactionDirection = "IN"
	TransactionOut TransactionDirection = "OUT"
)

// Bank is an institution available for linking
type Bank struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
	Logo      string `json:"logo,omitempty"`
}

// BankAccount is a read-only account snapshot from the open-banking source
type BankAccount struct {
	ID            string          `json:"id"`
	BankID        string          `json:"bankId"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Type          string          `json:"type"`
	OpenedAt      null.Time       `json:"openedAt"`
}

// BankTransaction is a read-only transaction from the open-banking source
type BankTransaction struct {
	ID           string               `json:"id"`
	AccountID    string               `json:"accountId"`
	Amount       decimal.Decimal      `json:"amount"`
	Direction    TransactionDirection `json:"type"`
	Description  string               `json:"description"`
	Date         time.Time            `json:"date"`
	Counterparty string               `json:"counterparty,omitempty"`
}

// BankConnection records a user's linked bank. AccessToken is stored sealed.
type BankConnection struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	InstitutionID   string    `json:"institutionId"`
	InstitutionName string    `json:"institutionName"`
	ItemID          string    `json:"itemId"`
	AccessToken     string    `json:"-"`
	AccountIDs      []string  `json:"accounts"`
	IsActive        bool      `json:"isActive"`
	LastSyncedAt    null.Time `json:"lastSyncedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// InitiateLinkInput starts linking a bank
type InitiateLinkInput struct {
	BankID   string `json:"bankId" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyLinkInput completes linking a bank
type VerifyLinkInput struct {
	TransactionID string `json:"transactionId" binding:"required"`
	OTP           string `json:"otp" binding:"required"`
}

// LinkChallenge is returned after the bank accepted credentials
type LinkChallenge struct {
	TransactionID string    `json:"transactionId"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// LinkResult is returned after a bank has been linked
type LinkResult struct {
	Connection *BankConnection `json:"connection"`
	Accounts   []*BankAccount  `json:"accounts"`
}

// TransactionQuery bounds a transaction read by calendar day. Empty bounds are open.
type TransactionQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// AccountBalance is the balance snapshot of one linked account
type AccountBalance struct {
	AccountID     string          `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
}
