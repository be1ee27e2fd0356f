package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"hospital-management-api/config"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// AllowedExtensions lists the file extensions accepted for medical record attachments.
var AllowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// AllowedContentTypes lists the sniffed MIME types accepted for attachments.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":                true,
	"image/png":                 true,
	"image/gif":                 true,
	"application/pdf":           true,
	"application/msword":        true,
	"application/x-ole-storage": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStorage keeps attachments on the local filesystem under dir and
// serves them from urlPrefix.
type LocalStorage struct {
	dir         string
	urlPrefix   string
	maxFileSize int64
}

func NewLocalStorage(cfg config.UploadConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{
		dir:         cfg.Dir,
		urlPrefix:   strings.TrimRight(cfg.URLPrefix, "/"),
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, upload service.Upload) (entity.RecordFile, error) {
	if err := ctx.Err(); err != nil {
		return entity.RecordFile{}, err
	}
	if s.maxFileSize > 0 && upload.Size > s.maxFileSize {
		return entity.RecordFile{}, service.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !AllowedExtensions[ext] {
		return entity.RecordFile{}, service.ErrFileTypeNotAllowed
	}

	// Read one byte past the limit so oversized streams are caught even when
	// the declared size lies.
	limit := s.maxFileSize
	if limit <= 0 {
		limit = 1 << 30
	}
	data, err := io.ReadAll(io.LimitReader(upload.Content, limit+1))
	if err != nil {
		return entity.RecordFile{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return entity.RecordFile{}, service.ErrFileTooLarge
	}
	if !allowedContent(mimetype.Detect(data)) {
		return entity.RecordFile{}, service.ErrFileTypeNotAllowed
	}

	// Stored names are random so uploads never collide and their URLs cannot
	// be derived from the original file name.
	name := uuid.NewString() + ext
	if err := writeNew(filepath.Join(s.dir, name), data); err != nil {
		return entity.RecordFile{}, fmt.Errorf("failed to store upload: %w", err)
	}

	return entity.RecordFile{
		Name: sanitizeName(upload.Filename),
		URL:  s.urlPrefix + "/" + name,
	}, nil
}

func (s *LocalStorage) Remove(ctx context.Context, file entity.RecordFile) error {
	name := path.Base(file.URL)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// writeNew refuses to replace an existing file.
func writeNew(filename string, data []byte) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(filename)
		return err
	}
	return f.Close()
}

func allowedContent(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if AllowedContentTypes[m.String()] {
			return true
		}
	}
	return false
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == "_" {
		return "file"
	}
	return base
}
