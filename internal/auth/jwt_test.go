package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(TestSecret)
	user := model.User{ID: uuid.New(), Role: model.RoleEmployer}

	token, issued, err := tm.GenerateStandardToken(user)
	require.NoError(t, err)

	claims, err := tm.ValidatedToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleEmployer, claims.Role)
	assert.Equal(t, JwtIssuer, claims.Issuer)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestValidatedTokenExpired(t *testing.T) {
	tm := NewTokenManager(TestSecret)
	token, _, err := tm.GenerateTokenWithDuration(model.User{ID: uuid.New()}, -time.Minute, JwtIssuer)
	require.NoError(t, err)

	_, err = tm.ValidatedToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidatedTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("other-secret").GenerateStandardToken(model.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewTokenManager(TestSecret).ValidatedToken(token)
	assert.Error(t, err)
}

func TestValidatedTokenWrongIssuer(t *testing.T) {
	tm := NewTokenManager(TestSecret)
	token, _, err := tm.GenerateTokenWithDuration(model.User{ID: uuid.New()}, time.Hour, "someone-else")
	require.NoError(t, err)

	_, err = tm.ValidatedToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestValidatedTokenRejectsNoneAlg(t *testing.T) {
	claims := &Claims{UserID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{Issuer: JwtIssuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(TestSecret).ValidatedToken(token)
	assert.Error(t, err)
}
