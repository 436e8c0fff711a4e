package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// IsAdmin reports whether the role grants administrative access
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

// UserStatus represents the account gate state
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

// Gender represents a user's declared gender
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

const (
	MinCreditScore     = 300
	MaxCreditScore     = 850
	DefaultCreditScore = MinCreditScore
)

// User represents a user entity
type User struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Phone        null.String     `json:"phone"`
	FullName     string          `json:"fullName"`
	Avatar       null.String     `json:"avatar"`
	Bio          null.String     `json:"bio"`
	Gender       Gender          `json:"gender,omitempty"`
	PasswordHash string          `json:"-"`
	Role         UserRole        `json:"role"`
	Status       UserStatus      `json:"status"`
	IsVerified   bool            `json:"isVerified"`
	CreditScore  int             `json:"creditScore"`
	Balance      decimal.Decimal `json:"balance"`
	DeletedBy    uuid.NullUUID   `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// UserFilter narrows admin user listings
type UserFilter struct {
	Search string
	Role   UserRole
	Status UserStatus
	Limit  int
	Offset int
}

// RegisterInput represents input for creating an account
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"omitempty,min=9,max=15,numeric"`
}

// UpdateProfileInput carries optional profile changes. Nil fields are left untouched.
type UpdateProfileInput struct {
	FullName *string `json:"fullName" binding:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,min=9,max=15,numeric"`
	Avatar   *string `json:"avatar" binding:"omitempty,url"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
	Gender   *Gender `json:"gender" binding:"omitempty,oneof=male female other"`
}

// AdminUpdateUserInput carries admin-side user edits
type AdminUpdateUserInput struct {
	UpdateProfileInput
	Email *string   `json:"email" binding:"omitempty,email"`
	Role  *UserRole `json:"role" binding:"omitempty,oneof=user admin super_admin"`
}

// ChangePasswordInput represents input for changing user password.
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}
