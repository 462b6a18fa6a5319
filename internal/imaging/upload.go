// Package imaging checks image files before they are uploaded.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"portfolio-admin/internal/fault"
)

const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"

	DefaultMaxBytes int64 = 5 << 20
)

// File is an image picked for upload.
type File struct {
	Name string
	Data []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// Open reads a file from disk, refusing anything above maxBytes without
// reading it into memory.
func Open(path string, maxBytes int64) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fault.Invalid("image", fmt.Sprintf("%s is a directory", path))
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, tooLarge(info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &File{Name: filepath.Base(path), Data: data}, nil
}

func IsSupportedType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// Validate enforces the upload preconditions and returns the sniffed MIME type.
func Validate(f *File, maxBytes int64) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", fault.Invalid("image", "file is empty")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if f.Size() > maxBytes {
		return "", tooLarge(f.Size(), maxBytes)
	}

	mimeType := DetectMimeType(f.Data)
	if !IsSupportedType(mimeType) {
		return "", fault.Invalid("image", fmt.Sprintf("unsupported file type %s (allowed: JPEG, PNG, GIF, WebP)", mimeType))
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err != nil {
		return "", fault.Invalid("image", fmt.Sprintf("cannot decode %s: %v", mimeType, err))
	}
	return mimeType, nil
}

func tooLarge(size, max int64) error {
	return fault.Invalid("image", fmt.Sprintf("file is %s, limit is %s", humanSize(size), humanSize(max)))
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	}
	return fmt.Sprintf("%dB", n)
}
