// Package storage persists uploaded resume files on local disk, MinIO or Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"jobboard-backend/internal/config"
)

var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for object names that escape the storage root.
	ErrInvalidKey = errors.New("invalid object name")
)

// Storage is the object store used for resumes.
type Storage interface {
	UploadFile(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
}

// New builds the Storage selected by cfg.Upload.Driver.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Upload.Driver {
	case config.StorageLocal:
		return NewLocalStorage(cfg.Upload.Dir)
	case config.StorageMinIO:
		return NewMinIOStorage(ctx, cfg.MinIO)
	case config.StorageGCS:
		return NewCloudStorageClient(ctx, cfg.GCS.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Upload.Driver)
	}
}

// CleanKey normalizes an object name and rejects names that are absolute or
// climb out of the root.
func CleanKey(objectName string) (string, error) {
	objectName = strings.ReplaceAll(strings.TrimSpace(objectName), "\\", "/")
	if objectName == "" || strings.HasPrefix(objectName, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(objectName)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
