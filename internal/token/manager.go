// Package token issues and verifies the signed session credentials. Every
// successful authentication mints a pair: a short-lived access token and a
// longer-lived refresh token, distinguished by a type claim so one can never
// stand in for the other.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type discriminates the two credentials of a session pair.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Config holds the signing material and lifetimes, injected once at startup.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the payload carried by both token types.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType Type   `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair groups the two credentials issued together.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// ErrInvalidToken covers bad signatures, expiry, and wrong-type submissions.
var ErrInvalidToken = errors.New("invalid token")

// Manager signs and verifies session tokens with a single HS256 secret.
type Manager struct {
	config Config
}

// NewManager validates the configuration and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: secret is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: TTLs must be positive")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("token: refresh TTL must exceed access TTL")
	}
	return &Manager{config: cfg}, nil
}

// AccessTTL returns the configured access token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.config.AccessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.config.RefreshTTL }

// IssuePair mints the access+refresh pair for a user.
func (m *Manager) IssuePair(userID, email string) (*Pair, error) {
	access, err := m.sign(userID, email, TypeAccess, m.config.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.sign(userID, email, TypeRefresh, m.config.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess parses and validates an access token.
func (m *Manager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TypeAccess)
}

// VerifyRefresh parses and validates a refresh token.
func (m *Manager) VerifyRefresh(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TypeRefresh)
}

func (m *Manager) sign(userID, email string, typ Type, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

func (m *Manager) verify(tokenString string, want Type) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.config.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
