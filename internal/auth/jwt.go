// Package auth issues and verifies session tokens and serves the register, login and logout endpoints.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"jobboard-backend/internal/model"
)

// JwtIssuer is the issuer claim of every token signed by this service.
const JwtIssuer = "jobboard"

// TokenTTL is the lifetime of a session token.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the payload of a session token.
type Claims struct {
	UserID uuid.UUID  `json:"id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 session tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager returns a TokenManager signing with secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateStandardToken issues a token for user valid for TokenTTL.
func (tm *TokenManager) GenerateStandardToken(user model.User) (string, *Claims, error) {
	return tm.GenerateTokenWithDuration(user, TokenTTL, JwtIssuer)
}

// GenerateTokenWithDuration issues a token for user expiring after d.
func (tm *TokenManager) GenerateTokenWithDuration(user model.User, d time.Duration, issuer string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidatedToken parses encodedToken and checks its signature, expiry and issuer.
func (tm *TokenManager) ValidatedToken(encodedToken string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(encodedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.VerifyIssuer(JwtIssuer, true) {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	return claims, nil
}
