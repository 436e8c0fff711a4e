package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"p2p-lending.backend/internal/domain/entities"
)

// ScoreBreakdown is the JSON column holding the sub-scores.
type ScoreBreakdown = datatypes.JSONType[entities.CreditBreakdown]

// CreditScore rows are append-only.
type CreditScore struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_credit_scores_user_created"`
	Score        int             `gorm:"not null"`
	Breakdown    ScoreBreakdown  `gorm:"type:jsonb;not null"`
	Rating       string          `gorm:"type:varchar(20);not null"`
	LoanLimit    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CalculatedAt time.Time       `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"index:idx_credit_scores_user_created,sort:desc"`
}

func (CreditScore) TableName() string { return "credit_scores" }
