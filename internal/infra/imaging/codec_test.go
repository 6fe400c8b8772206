package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	path := filepath.Join(dir, "shot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestResizeKeepsAspectRatio(t *testing.T) {
	path := writePNG(t, t.TempDir(), 1600, 400)

	require.NoError(t, New().Resize(path, 800, 800))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestResizeLeavesSmallImagesAlone(t *testing.T) {
	path := writePNG(t, t.TempDir(), 300, 200)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, New().Resize(path, 800, 800))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestResizeMissingFile(t *testing.T) {
	err := New().Resize(filepath.Join(t.TempDir(), "nope.png"), 800, 800)
	require.Error(t, err)
}

func TestLoadPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 40, 20)

	img, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
}

func TestLoadJPEGStaysJPEG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 10, 10)), nil))
	require.NoError(t, f.Close())

	img, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := New().Load(path)
	require.Error(t, err)
}

func TestEncodeUnsupported(t *testing.T) {
	err := encode(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), "webp")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, mw, mh int
		ww, wh       int
	}{
		{1600, 400, 800, 800, 800, 200},
		{400, 1600, 800, 800, 200, 800},
		{800, 800, 800, 800, 800, 800},
		{5000, 1, 800, 800, 800, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, tt.mw, tt.mh)
		assert.Equal(t, tt.ww, w)
		assert.Equal(t, tt.wh, h)
	}
}
