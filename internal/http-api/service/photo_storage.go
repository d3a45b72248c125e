package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrPhotoTooLarge = errors.New("photo exceeds the maximum upload size")

// PhotoStorage writes uploaded item photos to local disk under a UUID-prefixed
// filename and hands back the stored name for the item record.
type PhotoStorage struct {
	dir     string
	maxSize int64
}

func NewPhotoStorage(dir string, maxSize int64) (*PhotoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &PhotoStorage{dir: dir, maxSize: maxSize}, nil
}

func (p *PhotoStorage) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.New().String() + "_" + sanitizeFilename(originalName)
	path := filepath.Join(p.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, p.maxSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write photo file: %w", err)
	}
	if written > p.maxSize {
		os.Remove(path)
		return "", ErrPhotoTooLarge
	}

	return name, nil
}

func (p *PhotoStorage) Remove(name string) error {
	if name == "" {
		return nil
	}
	return os.Remove(filepath.Join(p.dir, filepath.Base(name)))
}

func (p *PhotoStorage) Dir() string {
	return p.dir
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, base)
}
