package utilities

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrNoBearerToken is returned when the Authorization header carries no bearer token.
var ErrNoBearerToken = errors.New("no bearer token in authorization header")

// ExtractBearerToken returns the token part of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	const bearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if !strings.HasPrefix(authHeader, bearerSchema) {
		return "", ErrNoBearerToken
	}

	token := strings.TrimSpace(authHeader[len(bearerSchema):])
	if token == "" {
		return "", ErrNoBearerToken
	}
	return token, nil
}
