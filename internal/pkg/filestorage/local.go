package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/courseport/courseport/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The base URL to access the stored files
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL is optional; if provided, it will be prepended to returned file paths.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFile saves an uploaded file to a subdirectory under basePath
func (ls *LocalStorage) SaveFile(_ context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil // No file uploaded
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Unique filename to prevent collisions
	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext

	dstPath, err := ls.ensureDir(subPath, uniqueFilename)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := ls.accessiblePath(subPath, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// SaveBytes stores raw bytes under the given filename
func (ls *LocalStorage) SaveBytes(_ context.Context, data []byte, filename, subPath string) (string, error) {
	dstPath, err := ls.ensureDir(subPath, filename)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return ls.accessiblePath(subPath, filename), nil
}

// DeleteFile removes a file from the storage filesystem. It accepts the
// file path as stored in the database. Returns nil if the file doesn't
// exist (idempotent).
func (ls *LocalStorage) DeleteFile(_ context.Context, filePath string) error {
	if filePath == "" {
		return nil // Nothing to delete
	}

	filename := filepath.Base(filePath)
	if filename == "" || filename == "." || filename == "/" || filename == "uploads" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	// The final URL segment before the filename is the subdirectory
	subPath := filepath.Base(filepath.Dir(filePath))
	physicalPath := filepath.Join(ls.basePath, subPath, filename)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		physicalPath = filepath.Join(ls.basePath, filename)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

func (ls *LocalStorage) ensureDir(subPath, filename string) (string, error) {
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}
	return filepath.Join(fullDirPath, filename), nil
}

func (ls *LocalStorage) accessiblePath(subPath, filename string) string {
	if ls.baseURL != "" {
		base := strings.TrimRight(ls.baseURL, "/")
		if subPath != "" {
			return base + "/" + subPath + "/" + filename
		}
		return base + "/" + filename
	}
	if subPath != "" {
		return filepath.Join("uploads", subPath, filename)
	}
	return filepath.Join("uploads", filename)
}
