package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobboard-backend/internal/utilities"
)

// Recovery turns a panic in any handler into a 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFromContext(c).Error("panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
					Message: "Something went wrong on the server!",
				})
			}
		}()
		c.Next()
	}
}
