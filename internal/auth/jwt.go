package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
)

var (
	ErrTokenExpired = fmt.Errorf("%w: token expired", httpx.ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: token invalid", httpx.ErrUnauthorized)
)

// TokenManager issues and validates signed, time-limited bearer tokens.
// It is stateless given the signing secret and safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager with a fixed validity window.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding the principal's username to the validity
// window starting now.
func (m *TokenManager) Issue(principal *Principal) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   principal.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		ID:        uuid.NewString(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the encoded username.
// Expired and otherwise-invalid tokens fail distinctly; callers may treat
// both as unauthenticated.
func (m *TokenManager) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// Subject decodes the username without re-verifying the signature. Only
// meaningful after Validate has succeeded for the same token.
func (m *TokenManager) Subject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
