// Package upload stores multipart images on local disk and removes files
// nothing references any more.
package upload

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PublicPrefix is the URL path files are served under and the prefix of stored paths.
const PublicPrefix = "uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes uploaded images into a single directory
type Store struct {
	dir     string
	maxSize int64
	logger  *logger.Logger
}

// NewStore creates an upload store with validation and defaults
func NewStore(cfg *config.UploadConfig, log *logger.Logger) (*Store, error) {
	dir := "./uploads"
	if cfg != nil && cfg.Dir != "" {
		dir = cfg.Dir
	}

	var maxSize int64 = 5 << 20
	if cfg != nil && cfg.MaxFileSize != "" {
		n, err := strconv.ParseInt(cfg.MaxFileSize, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid upload max file size '%s'", cfg.MaxFileSize)
		}
		maxSize = n
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	return &Store{
		dir:     dir,
		maxSize: maxSize,
		logger:  log.WithComponent("upload-store"),
	}, nil
}

// Dir is the directory served at /uploads.
func (s *Store) Dir() string {
	return s.dir
}

// SaveFormFile stores the file sent under field and returns "uploads/<name>".
// It returns "" when the request carries no such file.
func (s *Store) SaveFormFile(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return "", nil
		}
		return "", apperr.Validation(field, "Invalid file upload")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", apperr.Validation(field, "Only image files (jpg, jpeg, png, gif, webp) are allowed")
	}
	if file.Size > s.maxSize {
		return "", apperr.Validation(field, fmt.Sprintf("File exceeds the %d byte limit", s.maxSize))
	}

	name := storedName(field, ext)
	if err := c.SaveUploadedFile(file, filepath.Join(s.dir, name)); err != nil {
		s.logger.Error("Failed to save upload " + file.Filename + ": " + err.Error())
		return "", apperr.Server("failed to save uploaded file", err)
	}

	s.logger.Debug("Stored upload " + name)
	return PublicPrefix + "/" + name, nil
}

// Remove deletes a stored file by its stored path; missing files are ignored.
func (s *Store) Remove(storedPath string) error {
	name := filepath.Base(storedPath)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload %s: %w", name, err)
	}
	return nil
}

func storedName(field, ext string) string {
	return field + "-" + uuid.NewString() + ext
}
