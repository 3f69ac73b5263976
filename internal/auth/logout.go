package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobboard-backend/internal/utilities"
)

// LogoutController handles user logout by blacklisting JWT tokens
type LogoutController struct {
	BlacklistStore JwtBlacklistStore
	Logger         *zap.Logger
}

// NewLogoutController creates a new instance of LogoutController
func NewLogoutController(blacklistStore JwtBlacklistStore, logger *zap.Logger) *LogoutController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogoutController{
		BlacklistStore: blacklistStore,
		Logger:         logger,
	}
}

// LogoutHandler revokes the presented token until it expires.
// @Summary Log out
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <Add access token here>)
// @Success 200 {object} utilities.MessageResponse
// @Failure 401 {object} utilities.ErrorResponse "Missing token or claims"
// @Failure 500 {object} utilities.ErrorResponse "Blacklist store error"
// @Router /auth/logout [post]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {
	tokenString, err := utilities.ExtractBearerToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: "Not authorized, no token"})
		return
	}

	claims, err := ExtractClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Message: err.Error()})
		return
	}

	if err := lc.BlacklistStore.AddToBlacklist(c.Request.Context(), tokenString, claims.ExpiresAt.Time); err != nil {
		lc.Logger.Error("failed to blacklist token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Message: "Failed to logout"})
		return
	}

	LogAuthAttempt(lc.Logger, zap.InfoLevel, "Logout", AuthSuccess, claims.Subject, "")
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Successfully logged out"})
}

// ExtractClaims returns the claims set on the context by the auth middleware.
func ExtractClaims(c *gin.Context) (*Claims, error) {
	claims, ok := c.Get("claims")
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	realClaims, okCast := claims.(*Claims)
	if !okCast || realClaims.ExpiresAt == nil {
		return nil, errors.New("invalid token claims type")
	}
	return realClaims, nil
}
