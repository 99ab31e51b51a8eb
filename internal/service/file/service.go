package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/storage"
)

type FileService interface {
	// UploadJustificationAttachment stores the document backing a
	// justification (medical certificate, declaration) and returns its path.
	UploadJustificationAttachment(ctx context.Context, employeeID string, coveredDate time.Time, file io.Reader, filename string) (string, error)

	// Generic operations
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

var attachmentContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadJustificationAttachment implements FileService.
func (s *fileServiceImpl) UploadJustificationAttachment(ctx context.Context, employeeID string, coveredDate time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := attachmentContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("invalid file type: only pdf, jpg, jpeg, png allowed")
	}

	// justifications/{employeeID}/{date}-{uuid}-{timestamp}.ext
	newFilename := fmt.Sprintf("%s-%s-%d%s", coveredDate.Format("2006-01-02"), uuid.New().String(), s.now().Unix(), ext)
	path := filepath.Join("justifications", employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload justification attachment: %w", err)
	}

	return uploadedPath, nil
}

// OpenFile opens a stored file for reading
func (s *fileServiceImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
