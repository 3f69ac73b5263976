package file

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/storage"
)

type brokenStorage struct{}

func (brokenStorage) UploadFile(context.Context, string, io.Reader, int64, string) error {
	return errors.New("down")
}

func (brokenStorage) DownloadFile(context.Context, string) (io.ReadCloser, int64, error) {
	return nil, 0, errors.New("connection refused")
}

func router(store storage.Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/uploads/*filepath", NewFileController(store, nil).GetFile)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetFile(t *testing.T) {
	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	body := "%PDF-1.4 my resume"
	require.NoError(t, store.UploadFile(context.Background(), "resumes/1700000000000-cv.pdf", strings.NewReader(body), int64(len(body)), "application/pdf"))

	rec := get(router(store), "/uploads/resumes/1700000000000-cv.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "1700000000000-cv.pdf")
}

func TestGetFile_NotFound(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	r := router(store)

	rec := get(r, "/uploads/resumes/missing.pdf")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "File not found")

	rec = get(r, "/uploads/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFile_StorageError(t *testing.T) {
	rec := get(router(brokenStorage{}), "/uploads/resumes/cv.pdf")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
