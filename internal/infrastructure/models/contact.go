package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contact struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email       string     `gorm:"type:varchar(255);not null;index"`
	FullName    string     `gorm:"type:varchar(100);not null"`
	Phone       *string    `gorm:"type:varchar(20)"`
	Message     string     `gorm:"type:text;not null"`
	Response    *string    `gorm:"type:text"`
	IsResponded bool       `gorm:"not null;default:false"`
	RespondedAt *time.Time `gorm:"type:timestamp"`
	RespondedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Contact) TableName() string { return "contacts" }
