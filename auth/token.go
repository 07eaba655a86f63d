// Package auth issues and verifies the bearer tokens that carry a signed-in
// user's identity between requests. Tokens are self-contained HS256 JWTs;
// verification is a signature check, not a server-side lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no token was supplied at all.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken is returned for malformed, tampered or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the JWT payload. UserID identifies the authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"userId"`
}

// TokenService signs and verifies bearer tokens with a process-wide secret.
// The secret is loaded once at startup and immutable afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a TokenService signing with secret. Tokens expire
// after ttl; a non-positive ttl defaults to 24 hours.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue produces a signed token embedding userID with issued-at and expiry
// claims.
func (s *TokenService) Issue(userID int) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and validity and returns the embedded
// user ID. A failure is always an explicit error; callers must treat any
// error as an authentication rejection.
func (s *TokenService) Verify(tokenString string) (int, error) {
	if tokenString == "" {
		return 0, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
