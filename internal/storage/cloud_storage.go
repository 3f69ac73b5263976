package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// CloudStorageClient stores objects in a Google Cloud Storage bucket.
// Credentials come from the environment (GOOGLE_APPLICATION_CREDENTIALS).
type CloudStorageClient struct {
	BucketName string
	Client     *gcs.Client
}

// NewCloudStorageClient creates a client for bucketName.
func NewCloudStorageClient(ctx context.Context, bucketName string) (*CloudStorageClient, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Client:     client,
	}, nil
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, objectName string, r io.Reader, _ int64, contentType string) error {
	key, err := CleanKey(objectName)
	if err != nil {
		return err
	}

	wc := c.Client.Bucket(c.BucketName).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to write data to object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %w", err)
	}
	return nil
}

func (c *CloudStorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	key, err := CleanKey(objectName)
	if err != nil {
		return nil, 0, err
	}

	rc, err := c.Client.Bucket(c.BucketName).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to read object: %w", err)
	}
	return rc, rc.Attrs.Size, nil
}

// Close releases the underlying client.
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}
