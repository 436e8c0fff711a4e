package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v3"
)

// Sealer encrypts short secrets (bank access tokens) into compact JWE strings for storage at rest.
type Sealer struct {
	key []byte
}

// NewSealer creates a sealer from a 32-byte hex key
func NewSealer(keyHex string) (*Sealer, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext with direct AES-256-GCM and returns the compact serialization.
func (s *Sealer) Seal(plaintext string) (string, error) {
	enc, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.DIRECT, Key: s.key}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create encrypter: %w", err)
	}
	obj, err := enc.Encrypt([]byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to seal: %w", err)
	}
	return obj.CompactSerialize()
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	obj, err := jose.ParseEncrypted(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to parse sealed value: %w", err)
	}
	plain, err := obj.Decrypt(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed value: %w", err)
	}
	return string(plain), nil
}
