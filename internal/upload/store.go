package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/medpredict/alert-service/internal/domain"
)

// Sentinel errors surfaced to the route layer, which maps them to
// distinct HTTP statuses.
var (
	ErrUnsupportedMediaType = errors.New("only PDF and text files are allowed")
	ErrPayloadTooLarge      = errors.New("file exceeds maximum allowed size")
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
}

// DiskStore persists accepted uploads to a local directory. Generated names
// never collide, so concurrent requests share the directory without locking.
type DiskStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
	randIntn func(n int64) int64
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: upload directory is required", domain.ErrConfiguration)
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("%w: max upload size must be positive", domain.ErrConfiguration)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create upload directory %s: %v", domain.ErrConfiguration, dir, err)
	}

	return &DiskStore{
		dir:      dir,
		maxBytes: maxBytes,
		now:      time.Now,
		randIntn: rand.Int63n,
	}, nil
}

// Dir returns the destination directory, for static serving.
func (s *DiskStore) Dir() string { return s.dir }

// Save validates and persists one multipart file part. Rejections happen
// before any disk write; a write that overruns the size cap mid-copy leaves
// no residual file behind.
func (s *DiskStore) Save(fieldName string, header *multipart.FileHeader) (*domain.UploadedFile, error) {
	if header == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrValidation)
	}

	mimeType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if mediaType, _, found := strings.Cut(mimeType, ";"); found {
		mimeType = strings.TrimSpace(mediaType)
	}
	if !allowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedMediaType, mimeType)
	}

	if header.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, header.Size, s.maxBytes)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	filename, dst, err := s.createUnique(fieldName, filepath.Ext(header.Filename))
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	storagePath := filepath.Join(s.dir, filename)

	if err != nil || closeErr != nil {
		os.Remove(storagePath)
		if err == nil {
			err = closeErr
		}
		return nil, fmt.Errorf("failed to write uploaded file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(storagePath)
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, s.maxBytes)
	}

	return &domain.UploadedFile{
		FieldName:    fieldName,
		Filename:     filename,
		OriginalName: filepath.Base(header.Filename),
		MimeType:     mimeType,
		SizeBytes:    written,
		StoragePath:  storagePath,
	}, nil
}

// createUnique opens a destination file with O_EXCL, retrying with a fresh
// random suffix on the (unlikely) existing-name race.
func (s *DiskStore) createUnique(fieldName, ext string) (string, *os.File, error) {
	ext = strings.ToLower(ext)

	for {
		filename := fmt.Sprintf("%s-%d-%d%s", fieldName, s.now().UnixMilli(), s.randIntn(1_000_000_000), ext)
		dst, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return filename, dst, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("failed to create destination file: %w", err)
		}
	}
}
