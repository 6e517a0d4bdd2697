// Package storage persists accepted uploads on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// UploadStore saves accepted upload content for later inspection.
type UploadStore interface {
	// Save writes content under the store and returns the stored path.
	// The file hash keys the name so duplicate content maps to one file.
	Save(fileHash, originalFilename string, content []byte) (string, error)

	// ValidatePath checks path security (no traversal, within base).
	ValidatePath(fullPath string) error
}

// LocalUploadStore implements UploadStore on the local filesystem.
type LocalUploadStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalUploadStore creates a store rooted at baseDir.
func NewLocalUploadStore(baseDir string, logger *zap.Logger) *LocalUploadStore {
	return &LocalUploadStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes the upload as <baseDir>/<hash><ext>.
func (s *LocalUploadStore) Save(fileHash, originalFilename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	fullPath := filepath.Join(s.baseDir, fileHash+ext)

	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create upload directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write upload",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// ValidatePath checks that the path stays within baseDir.
func (s *LocalUploadStore) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}
