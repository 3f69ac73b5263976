package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage keeps objects as files below Root.
type LocalStorage struct {
	Root string
}

// NewLocalStorage creates root if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", root, err)
	}
	return &LocalStorage{Root: root}, nil
}

func (s *LocalStorage) resolve(objectName string) (string, error) {
	key, err := CleanKey(objectName)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Root, filepath.FromSlash(key)), nil
}

func (s *LocalStorage) UploadFile(_ context.Context, objectName string, r io.Reader, _ int64, _ string) error {
	dst, err := s.resolve(objectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("create dir for %q: %w", objectName, err)
	}

	// #nosec G304 -- dst is confined to Root by resolve
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("create %q: %w", objectName, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %q: %w", objectName, err)
	}
	return f.Close()
}

func (s *LocalStorage) DownloadFile(_ context.Context, objectName string) (io.ReadCloser, int64, error) {
	src, err := s.resolve(objectName)
	if err != nil {
		return nil, 0, err
	}

	// #nosec G304 -- src is confined to Root by resolve
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, ErrNotFound
	}
	return f, info.Size(), nil
}
