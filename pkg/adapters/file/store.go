package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// DefaultDir is the storage origin directory used when none is configured.
const DefaultDir = ".formflow"

// Store implements ports.BlobStore using the local filesystem.
// Each key is kept as one JSON file in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to DefaultDir.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.BasePath, key+".json"), nil
}

// Set writes value atomically: temp file in the same directory, fsync, then rename.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	destPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure store directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+key+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(value); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename fails on Windows when the destination exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Get reads the file stored for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	return data, nil
}

// Remove deletes the file stored for key.
func (s *Store) Remove(ctx context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete store file: %w", err)
	}
	return nil
}
