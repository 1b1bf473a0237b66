package filestorage

import (
	"errors"
	"mime/multipart"
)

// Upload errors
var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrFileTooLarge     = errors.New("file too large")
)

// MaxImageSize is the largest poster upload accepted, in bytes
const MaxImageSize = 5 << 20

// ImageStorage stores uploaded images and returns their public URL
type ImageStorage interface {
	SaveImage(fileHeader *multipart.FileHeader, dir string) (string, error)
	DeleteFile(fileURL string) error
}
