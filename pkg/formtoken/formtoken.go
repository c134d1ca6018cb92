// Package formtoken issues and validates the signed tokens handed to a
// lead-capture form when it mounts. The token pins the form ID and the mount
// time, which the anti-spam time guard measures against.
package formtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid form token")
	ErrExpiredToken = errors.New("form token has expired")
)

// FormClaims represents the JWT claims of a form token. The mount time is
// carried as the IssuedAt registered claim.
type FormClaims struct {
	FormID string `json:"form_id"`
	jwt.RegisteredClaims
}

// MountedAt returns when the form was mounted.
func (c *FormClaims) MountedAt() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// TokenManager handles form token generation and validation
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue creates a signed token for a freshly mounted form.
func (tm *TokenManager) Issue(formID string) (string, error) {
	now := time.Now()

	claims := FormClaims{
		FormID: formID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   formID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign form token: %w", err)
	}

	return signedToken, nil
}

// Validate checks signature and expiry and returns the claims.
func (tm *TokenManager) Validate(tokenString string) (*FormClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &FormClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*FormClaims)
	if !ok || !token.Valid || claims.FormID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
