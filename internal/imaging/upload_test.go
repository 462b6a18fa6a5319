package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-admin/internal/fault"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, format string) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := createTestImage(8, 8)
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestValidateAcceptsSupportedFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"png", MimeTypePNG},
		{"jpeg", MimeTypeJPEG},
		{"gif", MimeTypeGIF},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f := &File{Name: "honey." + tt.format, Data: encode(t, tt.format)}
			got, err := Validate(f, DefaultMaxBytes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	pngData := encode(t, "png")

	tests := []struct {
		name     string
		file     *File
		maxBytes int64
	}{
		{"nil file", nil, DefaultMaxBytes},
		{"empty file", &File{Name: "empty.png"}, DefaultMaxBytes},
		{"text file", &File{Name: "notes.txt", Data: []byte("hello world, not an image")}, DefaultMaxBytes},
		{"pdf", &File{Name: "doc.pdf", Data: []byte("%PDF-1.4 fake")}, DefaultMaxBytes},
		{"over limit", &File{Name: "big.png", Data: pngData}, int64(len(pngData) - 1)},
		{"truncated png", &File{Name: "broken.png", Data: pngData[:20]}, DefaultMaxBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.file, tt.maxBytes)
			require.Error(t, err)
			assert.Equal(t, fault.KindValidation, fault.KindOf(err))
		})
	}
}

func TestIsSupportedType(t *testing.T) {
	assert.True(t, IsSupportedType(MimeTypeWebP))
	assert.True(t, IsSupportedType(MimeTypeJPEG))
	assert.False(t, IsSupportedType("image/tiff"))
	assert.False(t, IsSupportedType("application/octet-stream"))
	assert.False(t, IsSupportedType(""))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.png")
	data := encode(t, "png")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f, err := Open(path, DefaultMaxBytes)
	require.NoError(t, err)
	assert.Equal(t, "hero.png", f.Name)
	assert.Equal(t, int64(len(data)), f.Size())

	_, err = Open(path, 10)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))

	_, err = Open(filepath.Join(dir, "missing.png"), DefaultMaxBytes)
	assert.Error(t, err)

	_, err = Open(dir, DefaultMaxBytes)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}
