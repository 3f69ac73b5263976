package middleware

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobboard-backend/internal/storage"
	"jobboard-backend/internal/utilities"
)

// Resume upload settings
const (
	ResumeField   = "resume"
	ResumePathKey = "resumePath"
	resumePrefix  = "resumes"
)

var allowedResumeExt = []string{".pdf", ".doc", ".docx"}

// ResumeUpload stores the optional "resume" file of a multipart request and
// sets its storage path on the context under ResumePathKey. Requests without
// a file pass through untouched.
func ResumeUpload(store storage.Storage, scanner storage.Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile(ResumeField)
		if err != nil {
			var maxBytesError *http.MaxBytesError
			switch {
			case errors.As(err, &maxBytesError):
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
					Message: "File too large",
					Error:   fmt.Sprintf("max body size is %d bytes", maxBytesError.Limit),
				})
			case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
				c.Next()
			default:
				c.AbortWithStatusJSON(http.StatusBadRequest, utilities.ErrorResponse{
					Message: "Invalid multipart form",
					Error:   err.Error(),
				})
			}
			return
		}

		if !IsAllowedResume(fileHeader.Filename) {
			c.AbortWithStatusJSON(http.StatusBadRequest, utilities.ErrorResponse{
				Message: "Only PDF, DOC, and DOCX files are allowed.",
			})
			return
		}

		logger := LoggerFromContext(c)

		if err := scanFile(scanner, fileHeader); err != nil {
			if errors.Is(err, storage.ErrInfected) {
				logger.Warn("infected resume rejected", zap.String("filename", fileHeader.Filename), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusBadRequest, utilities.ErrorResponse{
					Message: "Resume failed the malware scan",
				})
				return
			}
			logger.Error("resume scan failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: "Something went wrong on the server!",
				Error:   err.Error(),
			})
			return
		}

		key := ResumeKey(time.Now(), fileHeader.Filename)

		f, err := fileHeader.Open()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: "Something went wrong on the server!",
				Error:   err.Error(),
			})
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close uploaded file", zap.Error(err))
			}
		}()

		contentType := fileHeader.Header.Get("Content-Type")
		if err := store.UploadFile(c.Request.Context(), key, f, fileHeader.Size, contentType); err != nil {
			logger.Error("failed to store resume", zap.String("key", key), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Message: "Failed to upload resume",
				Error:   err.Error(),
			})
			return
		}

		c.Set(ResumePathKey, key)
		c.Next()
	}
}

// IsAllowedResume reports whether filename ends in .pdf, .doc or .docx, ignoring case.
func IsAllowedResume(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(allowedResumeExt, ext)
}

// ResumeKey returns the storage path of a resume uploaded at t.
// Only the base name of the client supplied filename is kept.
func ResumeKey(t time.Time, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("%s/%d-%s", resumePrefix, t.UnixMilli(), base)
}

// ResumePath returns the path stored by ResumeUpload, if any.
func ResumePath(c *gin.Context) (string, bool) {
	p := c.GetString(ResumePathKey)
	return p, p != ""
}

func scanFile(scanner storage.Scanner, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return scanner.Scan(f)
}
