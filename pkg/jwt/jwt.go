package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents JWT claims. Email is carried on access tokens only.
type Claims struct {
	UserID  uuid.UUID `json:"id"`
	Email   string    `json:"email,omitempty"`
	Role    string    `json:"role"`
	IsAdmin bool      `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Subject identifies whom a token pair is issued for
type Subject struct {
	UserID  uuid.UUID
	Email   string
	Role    string
	IsAdmin bool
}

// JWTService issues and verifies access and refresh tokens, each with its own secret and lifetime.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *JWTService {
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GenerateTokenPair signs both tokens concurrently and fails if either fails.
func (s *JWTService) GenerateTokenPair(ctx context.Context, sub Subject) (*TokenPair, error) {
	var pair TokenPair
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		token, err := s.generateToken(sub, sub.Email, s.accessSecret, s.accessExpiry)
		if err != nil {
			return err
		}
		pair.AccessToken = token
		return nil
	})
	g.Go(func() error {
		token, err := s.generateToken(sub, "", s.refreshSecret, s.refreshExpiry)
		if err != nil {
			return err
		}
		pair.RefreshToken = token
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

// ValidateAccessToken validates an access token and returns the claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.accessSecret)
}

// ValidateRefreshToken validates a refresh token and returns the claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.refreshSecret)
}

// AccessExpiry returns the access token lifetime
func (s *JWTService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// RefreshExpiry returns the refresh token lifetime
func (s *JWTService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

func (s *JWTService) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) generateToken(sub Subject, email string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  sub.UserID,
		Email:   email,
		Role:    sub.Role,
		IsAdmin: sub.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signJWTToken(token, secret)
}
