package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is unique per (user_id, device_id); upserts conflict on that pair.
type UserSession struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_sessions_user_device"`
	DeviceID     string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_sessions_user_device"`
	DeviceName   string     `gorm:"type:varchar(255)"`
	DeviceType   string     `gorm:"type:varchar(10)"`
	IPAddress    string     `gorm:"type:varchar(64)"`
	UserAgent    string     `gorm:"type:text"`
	AccessToken  *string    `gorm:"type:text"`
	RefreshToken *string    `gorm:"type:text"`
	IsTrusted    bool       `gorm:"not null;default:false"`
	TrustedAt    *time.Time `gorm:"type:timestamp"`
	IsActive     bool       `gorm:"not null;default:true;index"`
	ExpiresAt    time.Time  `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserSession) TableName() string { return "user_sessions" }
