// Package file serves uploaded resumes from the configured storage.
package file

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobboard-backend/internal/storage"
	"jobboard-backend/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	Storage storage.Storage
	Logger  *zap.Logger
}

// NewFileController creates a new instance of FileController
func NewFileController(store storage.Storage, logger *zap.Logger) *FileController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileController{
		Storage: store,
		Logger:  logger,
	}
}

// GetFile streams the stored object at the wildcard path, e.g. /uploads/resumes/<name>.
// @Summary Retrieve an uploaded file
// @Tags File
// @Produce octet-stream
// @Param filepath path string true "Stored path, e.g. resumes/1700000000000-cv.pdf"
// @Success 200 {string} binary "File content"
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Failure 500 {object} utilities.ErrorResponse "Storage error"
// @Router /uploads/{filepath} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	reader, size, err := fc.Storage.DownloadFile(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Message: "File not found"})
			return
		}
		fc.Logger.Error("failed to download file", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Failed to download file from storage",
			Error:   err.Error(),
		})
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			fc.Logger.Warn("failed to close storage reader", zap.Error(err))
		}
	}()

	contentType := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, size, contentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", path.Base(name)),
	})
}
