package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Contact is a message left through the public contact form
type Contact struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	FullName    string        `json:"fullName"`
	Phone       null.String   `json:"phone"`
	Message     string        `json:"message"`
	Response    null.String   `json:"response"`
	IsResponded bool          `json:"isResponded"`
	RespondedAt null.Time     `json:"respondedAt"`
	RespondedBy uuid.NullUUID `json:"respondedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CreateContactInput is the public contact form
type CreateContactInput struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
	Phone    string `json:"phone" binding:"omitempty,min=9,max=15,numeric"`
	Message  string `json:"message" binding:"required,min=10,max=2000"`
}

// RespondContactInput is an admin reply
type RespondContactInput struct {
	Response string `json:"response" binding:"required,min=1,max=2000"`
}

// ContactFilter narrows contact listings
type ContactFilter struct {
	IsResponded *bool
	Limit       int
	Offset      int
}
