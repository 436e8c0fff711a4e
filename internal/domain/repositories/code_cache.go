package repositories

import (
	"context"
	"time"
)

// CodeCache holds short-lived one-time codes keyed by purpose and email.
type CodeCache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get reports false for absent or expired keys.
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
	// Consume atomically deletes key when it holds value and reports whether it did.
	Consume(ctx context.Context, key, value string) (bool, error)
}
