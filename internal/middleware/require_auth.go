// Package middleware contain utilities middleware code
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// Context keys set by RequireAuth
const (
	ClaimsKey = "claims"
	UserKey   = "user"
)

// RequireAuth validates the Bearer token in the Authorization header and
// loads the user it was issued for. The user and claims are attached to the
// context for the handlers behind it.
func RequireAuth(db *database.DBinstanceStruct, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Message: "Not authorized, no token",
			})
			return
		}

		claims, err := tokens.ValidatedToken(tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Message: "Not authorized, token failed",
				Error:   err.Error(),
			})
			return
		}

		var foundUser model.User
		if err := db.WithContext(ctx.Request.Context()).Where("id = ?", claims.UserID).First(&foundUser).Error; err != nil {
			if database.IsNotFound(err) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
					Message: "No user found with this token",
				})
				return
			}

			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: "Something went wrong on the server!",
				Error:   err.Error(),
			})
			return
		}

		ctx.Set(ClaimsKey, claims)
		ctx.Set(UserKey, foundUser)
		ctx.Next()
	}
}
