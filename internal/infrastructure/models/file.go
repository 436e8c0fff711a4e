package models

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OriginalName string    `gorm:"type:varchar(255);not null"`
	FileType     string    `gorm:"type:varchar(100);not null"`
	FileSize     int64     `gorm:"not null"`
	FileURL      string    `gorm:"type:text;not null"`
	StorageKey   string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Provider     string    `gorm:"type:varchar(50);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (File) TableName() string { return "files" }
