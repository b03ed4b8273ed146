package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/courseport/courseport/internal/pkg/logger"
)

// CloudinaryStorage stores files in a Cloudinary account. Used in
// production where local disk does not survive redeploys.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage creates a CloudinaryStorage from a
// cloudinary:// URL.
func NewCloudinaryStorage(cloudinaryURL, folder string) (*CloudinaryStorage, error) {
	client, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{client: client, folder: folder}, nil
}

// SaveFile uploads a multipart file and returns its secure URL
func (cs *CloudinaryStorage) SaveFile(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	publicID := strings.TrimSuffix(uuid.New().String()+filepath.Ext(fileHeader.Filename), filepath.Ext(fileHeader.Filename))
	result, err := cs.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   cs.fullFolder(subPath),
		PublicID: publicID,
	})
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Cloudinary upload failed")
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("url", result.SecureURL).Msg("File uploaded to cloudinary")
	return result.SecureURL, nil
}

// SaveBytes uploads raw bytes under the given filename
func (cs *CloudinaryStorage) SaveBytes(ctx context.Context, data []byte, filename, subPath string) (string, error) {
	publicID := strings.TrimSuffix(filename, filepath.Ext(filename))
	result, err := cs.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   cs.fullFolder(subPath),
		PublicID: publicID,
	})
	if err != nil {
		logger.Error().Err(err).Str("filename", filename).Msg("Cloudinary upload failed")
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return result.SecureURL, nil
}

// DeleteFile destroys an asset by the public ID embedded in its URL
func (cs *CloudinaryStorage) DeleteFile(ctx context.Context, filePath string) error {
	if filePath == "" {
		return nil
	}

	base := filepath.Base(filePath)
	publicID := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Base(filepath.Dir(filePath))
	if dir != "" && dir != "." && dir != "/" {
		publicID = dir + "/" + publicID
	}

	_, err := cs.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		logger.Error().Err(err).Str("publicId", publicID).Msg("Cloudinary destroy failed")
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	return nil
}

func (cs *CloudinaryStorage) fullFolder(subPath string) string {
	if subPath == "" {
		return cs.folder
	}
	if cs.folder == "" {
		return subPath
	}
	return cs.folder + "/" + subPath
}
