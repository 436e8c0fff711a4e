package redis

import (
	"context"
	"time"
)

var (
	setCodeValue     = Set
	getCodeValue     = Get
	delCodeValue     = Del
	consumeCodeValue = CompareAndDelete
)

// CodeStore keeps short-lived one-time codes. Expiry is enforced by Redis TTLs.
type CodeStore struct{}

// NewCodeStore creates a code store backed by the shared client
func NewCodeStore() *CodeStore {
	return &CodeStore{}
}

// Set stores value under key, replacing any previous value and resetting its TTL.
func (s *CodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return setCodeValue(ctx, key, value, ttl)
}

// Get returns the value and whether it exists. A missing or expired key is not an error.
func (s *CodeStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := getCodeValue(ctx, key)
	if err != nil {
		if IsNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Del removes key
func (s *CodeStore) Del(ctx context.Context, key string) error {
	return delCodeValue(ctx, key)
}

// Consume deletes key when it holds value. A wrong, missing or expired code reports false.
func (s *CodeStore) Consume(ctx context.Context, key, value string) (bool, error) {
	return consumeCodeValue(ctx, key, value)
}
