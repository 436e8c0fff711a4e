package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        *string         `gorm:"type:varchar(20);uniqueIndex"`
	FullName     string          `gorm:"type:varchar(100);not null"`
	Avatar       *string         `gorm:"type:text"`
	Bio          *string         `gorm:"type:text"`
	Gender       string          `gorm:"type:varchar(10)"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	Role         string          `gorm:"type:varchar(20);not null;default:'user'"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active'"`
	IsVerified   bool            `gorm:"not null;default:false"`
	CreditScore  int             `gorm:"not null;default:300"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	DeletedBy    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string { return "users" }
