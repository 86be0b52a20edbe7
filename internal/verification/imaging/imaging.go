// Package imaging turns uploaded bytes into a bitmap and picks the encoding
// handed to the OCR engine.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for a zero-length upload
var ErrEmptyImage = errors.New("cannot identify image file: empty payload")

// Bitmap is a decoded upload
type Bitmap struct {
	Image  image.Image
	Format string

	raw []byte
}

// Decode decodes PNG, JPEG, GIF, BMP, TIFF and WebP data.
func Decode(data []byte) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot identify image file: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot identify image file: %s image has no pixels", format)
	}

	return &Bitmap{Image: img, Format: format, raw: data}, nil
}

// EngineInput returns the bytes to send to an OCR engine. PNG and JPEG
// uploads pass through untouched; other formats are re-encoded as PNG.
// reencoded reports whether out is a new buffer.
func (b *Bitmap) EngineInput() (out []byte, reencoded bool, err error) {
	switch b.Format {
	case "png", "jpeg":
		return b.raw, false, nil
	}
	out, err = b.PNG()
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// PNG re-encodes the bitmap losslessly
func (b *Bitmap) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Image); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Width returns the bitmap width in pixels
func (b *Bitmap) Width() int { return b.Image.Bounds().Dx() }

// Height returns the bitmap height in pixels
func (b *Bitmap) Height() int { return b.Image.Bounds().Dy() }

// ZeroBytes overwrites a byte slice with zeros so upload data does not
// linger in memory after the request.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
