package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidFilename = errors.New("invalid filename")

// LocalStorage keeps uploaded files flat in one directory under generated names.
type LocalStorage struct {
	basePath string
}

type StoredFile struct {
	Filename     string
	OriginalName string
	Size         int64
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Dir() string {
	return s.basePath
}

// Save copies the upload to <uuid><ext>. A partial file is removed on failure.
func (s *LocalStorage) Save(file *multipart.FileHeader) (StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	fullPath := filepath.Join(s.basePath, filename)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create destination file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return StoredFile{}, fmt.Errorf("failed to save file: %w", err)
	}

	return StoredFile{
		Filename:     filename,
		OriginalName: filepath.Base(file.Filename),
		Size:         written,
	}, nil
}

// Path resolves filename inside the storage directory, rejecting anything
// that could point outside it.
func (s *LocalStorage) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) ||
		strings.HasPrefix(filename, ".") || strings.ContainsAny(filename, `/\`) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.basePath, filename), nil
}

func (s *LocalStorage) Exists(filename string) bool {
	path, err := s.Path(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *LocalStorage) Remove(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", filename, err)
	}
	return nil
}
