package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/utilities"
)

// JwtBlacklistCheck rejects tokens that were revoked by logout
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Message: "Not authorized, no token",
			})
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(ctx.Request.Context(), tokenString)
		if err != nil {
			LoggerFromContext(ctx).Error("blacklist lookup failed", zap.Error(err))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: "Something went wrong on the server!",
				Error:   err.Error(),
			})
			return
		}

		if isBlacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Message: "Not authorized, token failed",
				Error:   "token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
