package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/phonecat/internal/imagestore"
)

// LocalImageStore keeps images as plain files in a single directory.
type LocalImageStore struct {
	basePath string
}

func NewLocalImageStore(basePath string) (*LocalImageStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalImageStore{basePath: basePath}, nil
}

// Save writes r to name inside the upload directory. The data goes to a
// temporary file first and is renamed into place, so readers never observe a
// half-written image; concurrent saves of the same name leave the last one.
func (s *LocalImageStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		removeWithLog(tmpPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		removeWithLog(tmpPath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		removeWithLog(tmpPath)
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		removeWithLog(tmpPath)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return name, nil
}

func (s *LocalImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, imagestore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// safeJoin resolves name relative to basePath and rejects directory traversal.
func (s *LocalImageStore) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func removeWithLog(path string) {
	if err := os.Remove(path); err != nil {
		slog.Error("failed to remove temporary upload", "path", path, "error", err)
	}
}
