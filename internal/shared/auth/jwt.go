package auth

import (
	"errors"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

// GenerateToken issues an HS256 token whose subject is the principal.
func GenerateToken(p identity.Principal, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	if p.IsAnonymous() {
		return "", ErrInvalidToken
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   p.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry of a token and returns its principal.
func ParseToken(tokenString string, secret []byte) (identity.Principal, error) {
	if len(secret) == 0 {
		return identity.Anonymous, ErrEmptySecret
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Anonymous, ErrTokenExpired
		}
		return identity.Anonymous, ErrInvalidToken
	}
	if !token.Valid {
		return identity.Anonymous, ErrInvalidToken
	}

	p, err := identity.Parse(claims.Subject)
	if err != nil || p.IsAnonymous() {
		return identity.Anonymous, ErrInvalidToken
	}
	return p, nil
}
