package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const linkSessionPrefix = "bank-link:"

// ErrLinkSessionNotFound is returned for unknown or expired link transactions
var ErrLinkSessionNotFound = errors.New("link session not found")

// LinkSessionData is the pending state of a bank-link attempt between credential check and OTP.
type LinkSessionData struct {
	UserID    string    `json:"userId"`
	BankID    string    `json:"bankId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sealer encrypts values before they reach Redis. *crypto.Sealer satisfies it.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// LinkSessionStore keeps link sessions in Redis, sealed so usernames never sit in plain text.
type LinkSessionStore struct {
	sealer Sealer
}

var (
	setLinkValue    = Set
	getLinkValue    = Get
	delLinkValue    = Del
	marshalLinkJSON = json.Marshal
)

// NewLinkSessionStore creates a new link session store
func NewLinkSessionStore(sealer Sealer) *LinkSessionStore {
	return &LinkSessionStore{sealer: sealer}
}

// Create stores sealed link session data under the transaction id
func (s *LinkSessionStore) Create(ctx context.Context, transactionID string, data *LinkSessionData, expiration time.Duration) error {
	jsonData, err := marshalLinkJSON(data)
	if err != nil {
		return err
	}

	sealed, err := s.sealer.Seal(string(jsonData))
	if err != nil {
		return err
	}

	return setLinkValue(ctx, linkSessionPrefix+transactionID, sealed, expiration)
}

// Get retrieves and opens a link session
func (s *LinkSessionStore) Get(ctx context.Context, transactionID string) (*LinkSessionData, error) {
	sealed, err := getLinkValue(ctx, linkSessionPrefix+transactionID)
	if err != nil {
		if IsNil(err) {
			return nil, ErrLinkSessionNotFound
		}
		return nil, err
	}

	plain, err := s.sealer.Open(sealed)
	if err != nil {
		return nil, err
	}

	var data LinkSessionData
	if err := json.Unmarshal([]byte(plain), &data); err != nil {
		return nil, err
	}

	return &data, nil
}

// Delete removes a link session
func (s *LinkSessionStore) Delete(ctx context.Context, transactionID string) error {
	return delLinkValue(ctx, linkSessionPrefix+transactionID)
}
