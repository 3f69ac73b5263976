package apperror

import (
	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/utilities"
)

// Respond writes err as a JSON error response and aborts the request.
// Internal errors carry the cause in the error field.
func Respond(c *gin.Context, err error) {
	de := From(err)

	resp := utilities.ErrorResponse{Message: de.Message}
	if de.Kind == KindInternal && de.Err != nil {
		resp.Error = de.Err.Error()
	}
	c.AbortWithStatusJSON(de.Status(), resp)
}
