package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned for uploads that are not JPEG, PNG or WebP.
var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStorageService stores uploaded card photos on local disk
type ImageStorageService struct {
	storageDir string
}

// NewImageStorageService creates the storage directory if needed
func NewImageStorageService(storageDir string) *ImageStorageService {
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		// Writes will surface the error later
		log.Printf("Image storage: could not create %s: %v", storageDir, err)
	}

	return &ImageStorageService{
		storageDir: storageDir,
	}
}

// SaveImage writes image data under a random name and returns the filename
func (s *ImageStorageService) SaveImage(imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	ext, ok := imageExtensions[http.DetectContentType(imageData)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	filename := uuid.New().String() + ext
	filePath := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(filePath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return filename, nil
}

// DeleteImage removes a stored image; missing files are not an error
func (s *ImageStorageService) DeleteImage(filename string) error {
	if filename == "" || filepath.Base(filename) != filename {
		return fmt.Errorf("invalid image name %q", filename)
	}
	err := os.Remove(filepath.Join(s.storageDir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// GetStorageDir returns the storage directory path
func (s *ImageStorageService) GetStorageDir() string {
	return s.storageDir
}
