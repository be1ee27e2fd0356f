package service

import (
	"context"
	"errors"
	"io"

	"hospital-management-api/internal/domain/entity"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("only images, PDF and Word documents are allowed")
)

// Upload is one file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// FileStorage persists medical record attachments and returns where they are served from.
type FileStorage interface {
	Save(ctx context.Context, upload Upload) (entity.RecordFile, error)
	Remove(ctx context.Context, file entity.RecordFile) error
}
