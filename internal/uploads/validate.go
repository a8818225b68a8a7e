package uploads

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrMissingFile     = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("only image files are allowed")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Inspect checks an upload against the size limit, the extension allowlist
// and its sniffed content type, in that order. It returns the detected MIME
// type; the client-declared Content-Type is ignored.
func Inspect(file *multipart.FileHeader, maxBytes int64) (string, error) {
	if file == nil {
		return "", ErrMissingFile
	}
	if file.Size > maxBytes {
		return "", ErrFileTooLarge
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		return "", ErrUnsupportedType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	detected := strings.ToLower(mtype.String())
	if !allowedMimeTypes[detected] {
		return "", ErrUnsupportedType
	}
	return detected, nil
}
