package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MultipartOverhead pads the body limit for multipart boundaries and the
// other form fields sent alongside the file.
const MultipartOverhead = int64(64 * 1024)

// SizeLimit caps the request body at maxBodyBytes plus MultipartOverhead.
// Reads past the cap fail with *http.MaxBytesError.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+MultipartOverhead)
		c.Next()
	}
}
