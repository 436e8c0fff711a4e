package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BankConnection struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	InstitutionID   string         `gorm:"type:varchar(50);not null"`
	InstitutionName string         `gorm:"type:varchar(100);not null"`
	ItemID          string         `gorm:"type:varchar(64);uniqueIndex;not null"`
	AccessToken     string         `gorm:"type:text;not null"`
	AccountIDs      pq.StringArray `gorm:"type:text[]"`
	IsActive        bool           `gorm:"not null;default:true"`
	LastSyncedAt    *time.Time     `gorm:"type:timestamp"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (BankConnection) TableName() string { return "bank_connections" }
