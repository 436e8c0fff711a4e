package utils

import (
	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// NewID returns a time-ordered UUID v7, falling back to v4.
func NewID() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// EnsureID returns id, or a fresh one when id is nil.
func EnsureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return NewID()
	}
	return id
}
