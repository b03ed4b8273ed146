package filestorage

import (
	"context"
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile saves an uploaded file and returns its accessible URL or path
	SaveFile(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes stores raw bytes (generated images etc.) under the given
	// filename and returns the accessible URL or path
	SaveBytes(ctx context.Context, data []byte, filename, subPath string) (string, error)

	// DeleteFile removes a previously stored file
	DeleteFile(ctx context.Context, filePath string) error
}
