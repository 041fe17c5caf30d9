package services

import (
	"fmt"
	"io"
	"mime/multipart"

	"alfredoptarigan/resume-matcher/internal/models"
)

type StorageService interface {
	ReadUpload(file *multipart.FileHeader) (models.UploadedFile, error)
}

// storageService keeps uploaded resumes in memory; nothing touches disk.
type storageService struct {
	maxFileSize int64
}

func NewStorageService(maxFileSize int64) StorageService {
	return &storageService{
		maxFileSize: maxFileSize,
	}
}

// ReadUpload loads the whole multipart file, refusing anything larger than
// the configured limit.
func (s *storageService) ReadUpload(file *multipart.FileHeader) (models.UploadedFile, error) {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return models.UploadedFile{}, fmt.Errorf("%s: %w", file.Filename, models.ErrFileTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	reader := io.Reader(src)
	if s.maxFileSize > 0 {
		reader = io.LimitReader(src, s.maxFileSize+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if s.maxFileSize > 0 && int64(len(content)) > s.maxFileSize {
		return models.UploadedFile{}, fmt.Errorf("%s: %w", file.Filename, models.ErrFileTooLarge)
	}

	return models.UploadedFile{
		Name:    file.Filename,
		Size:    int64(len(content)),
		Content: content,
	}, nil
}
