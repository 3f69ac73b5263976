package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// CheckRole will protect endpoint from user that is not one of roles.
// It must run after RequireAuth.
func CheckRole(roles ...model.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Message: "Not authorized, no token",
				Error:   err.Error(),
			})
			return
		}

		if !slices.Contains(roles, user.Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Message: fmt.Sprintf("Role (%s) not allowed to access this resource", user.Role),
			})
			return
		}

		ctx.Next()
	}
}
