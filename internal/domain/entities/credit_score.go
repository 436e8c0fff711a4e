package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditRating is the tier derived from a total score
type CreditRating string

const (
	CreditRatingExcellent CreditRating = "EXCELLENT"
	CreditRatingGood      CreditRating = "GOOD"
	CreditRatingFair      CreditRating = "FAIR"
	CreditRatingPoor      CreditRating = "POOR"
)

// Sub-score ceilings. They sum to MaxTotalScore.
const (
	MaxIncomeScore      = 300
	MaxSpendingScore    = 250
	MaxBalanceScore     = 200
	MaxConsistencyScore = 150
	MaxHistoryScore     = 100
	MaxTotalScore       = 1000
)

// CreditBreakdown holds the five sub-scores
type CreditBreakdown struct {
	IncomeScore      int `json:"incomeScore"`
	SpendingScore    int `json:"spendingScore"`
	BalanceScore     int `json:"balanceScore"`
	ConsistencyScore int `json:"consistencyScore"`
	HistoryScore     int `json:"historyScore"`
}

// Total sums the sub-scores
func (b CreditBreakdown) Total() int {
	return b.IncomeScore + b.SpendingScore + b.BalanceScore + b.ConsistencyScore + b.HistoryScore
}

// CreditScore is an immutable snapshot of one scoring run
type CreditScore struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Score        int             `json:"score"`
	Breakdown    CreditBreakdown `json:"breakdown"`
	Rating       CreditRating    `json:"rating"`
	LoanLimit    decimal.Decimal `json:"loanLimit"`
	CalculatedAt time.Time       `json:"calculatedAt"`
	CreatedAt    time.Time       `json:"createdAt"`
}
