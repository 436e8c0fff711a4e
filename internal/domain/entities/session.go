package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DeviceType classifies the client a session belongs to
type DeviceType string

const (
	DeviceTypeIOS     DeviceType = "ios"
	DeviceTypeAndroid DeviceType = "android"
	DeviceTypeWeb     DeviceType = "web"
)

// SessionLifetime is how long an upserted session stays valid
const SessionLifetime = 30 * 24 * time.Hour

// Session is the per-(user, device) login record. At most one exists per pair.
type Session struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"userId"`
	DeviceID     string      `json:"deviceId"`
	DeviceName   string      `json:"deviceName"`
	DeviceType   DeviceType  `json:"deviceType"`
	IPAddress    string      `json:"ipAddress"`
	UserAgent    string      `json:"userAgent"`
	AccessToken  null.String `json:"-"`
	RefreshToken null.String `json:"-"`
	IsTrusted    bool        `json:"isTrusted"`
	TrustedAt    null.Time   `json:"trustedAt"`
	IsActive     bool        `json:"isActive"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DeviceInfo describes the client presenting a login
type DeviceInfo struct {
	DeviceID   string     `json:"deviceId" binding:"omitempty,max=255"`
	DeviceName string     `json:"deviceName" binding:"omitempty,max=255"`
	DeviceType DeviceType `json:"deviceType" binding:"omitempty,oneof=ios android web"`
	IPAddress  string     `json:"-"`
	UserAgent  string     `json:"-"`
}

// SessionUpsert is the data written when tokens are issued for a device
type SessionUpsert struct {
	UserID       uuid.UUID
	Device       DeviceInfo
	AccessToken  string
	RefreshToken string
	Trust        bool
	ExpiresAt    time.Time
}
