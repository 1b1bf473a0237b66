package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/tam/internal/pkg/logger"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// LocalStorage saves files under basePath and serves them below baseURL/uploads
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage instance and ensures basePath exists
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveImage stores an uploaded image in dir under a random name and returns its URL
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
	}
	if fileHeader.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir = filepath.Base(filepath.Clean("/" + dir))
	fullDirPath := filepath.Join(ls.basePath, dir)
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	filename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Read one byte past the limit so a lying Size header is still caught
	n, err := io.Copy(dst, io.LimitReader(file, MaxImageSize+1))
	if err != nil || n > MaxImageSize {
		_ = os.Remove(dstPath)
		if err == nil {
			return "", ErrFileTooLarge
		}
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + "/" + path.Join("uploads", dir, filename)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// DeleteFile removes a previously saved file given its URL. Missing files are ignored.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return nil
	}

	if err := os.Remove(physicalPath); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath maps a file URL back to its path under basePath, or "" if it is not one of ours
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	rel = strings.TrimPrefix(rel, "/")
	if !strings.HasPrefix(rel, "uploads/") {
		return ""
	}

	parts := strings.Split(strings.TrimPrefix(rel, "uploads/"), "/")
	if len(parts) != 2 || parts[0] == ".." || parts[1] == ".." || parts[1] == "" {
		return ""
	}
	return filepath.Join(ls.basePath, parts[0], parts[1])
}
