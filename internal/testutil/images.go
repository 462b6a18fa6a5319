package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio-admin/internal/imaging"
)

// PNG returns a small valid PNG named name.
func PNG(t testing.TB, name string) *imaging.File {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &imaging.File{Name: name, Data: buf.Bytes()}
}
