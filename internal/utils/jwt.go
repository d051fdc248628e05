package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and parses session tokens. The secret is injected once at
// construction; tokens are stateless, so a token stays valid until expiry.
type JWTManager struct {
	Secret          []byte
	Issuer          string
	SessionTokenTTL time.Duration
}

type SessionClaims struct {
	AccountID string `json:"sub"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (m JWTManager) IssueSessionToken(accountID string, role string) (string, time.Duration, error) {
	ttl := m.SessionTokenTTL
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	now := time.Now()
	claims := SessionClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

// ParseSessionToken returns the claims for a well-formed, correctly signed,
// unexpired token. Every failure mode collapses into ErrInvalidToken so
// callers treat it as unauthenticated, never as a server error.
func (m JWTManager) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
