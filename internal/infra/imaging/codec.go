package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/bryanwahyu/ux-critique/internal/domain/ai"
)

// ErrUnsupportedFormat is returned by Resize for formats that can be decoded but not re-encoded.
var ErrUnsupportedFormat = errors.New("image format cannot be re-encoded")

const jpegQuality = 90

// Codec decodes uploads into model-ready images and downscales them in place.
type Codec struct{}

func New() *Codec { return &Codec{} }

// Load decodes the image at path, flattens it to opaque RGB and re-encodes it.
// JPEG sources stay JPEG, everything else becomes PNG.
func (c *Codec) Load(path string) (ai.Image, error) {
	img, format, err := decodeFile(path)
	if err != nil {
		return ai.Image{}, err
	}
	rgb := flatten(img)

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return ai.Image{}, fmt.Errorf("encode jpeg: %w", err)
		}
		return ai.Image{Data: buf.Bytes(), MIMEType: "image/jpeg"}, nil
	}
	if err := png.Encode(&buf, rgb); err != nil {
		return ai.Image{}, fmt.Errorf("encode png: %w", err)
	}
	return ai.Image{Data: buf.Bytes(), MIMEType: "image/png"}, nil
}

// Resize shrinks the image at path to fit maxWidth x maxHeight, keeping the
// aspect ratio, and overwrites the file in its original format. Images that
// already fit are left untouched.
func (c *Codec) Resize(path string, maxWidth, maxHeight int) error {
	img, format, err := decodeFile(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxWidth, maxHeight)
	if w == b.Dx() && h == b.Dy() {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := encode(&buf, dst, format); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".resize-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write resized image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, format, nil
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// fit returns the largest size within the bounds that keeps the aspect ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}

// flatten composites img over white into an opaque RGBA image.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Over)
	return dst
}
