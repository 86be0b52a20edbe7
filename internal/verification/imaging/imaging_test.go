package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	img := blank(64, 32)

	var pngBuf, jpegBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))
	require.NoError(t, jpeg.Encode(&jpegBuf, img, nil))
	require.NoError(t, bmp.Encode(&bmpBuf, img))

	tests := []struct {
		name       string
		data       []byte
		wantFormat string
	}{
		{"png", pngBuf.Bytes(), "png"},
		{"jpeg", jpegBuf.Bytes(), "jpeg"},
		{"bmp", bmpBuf.Bytes(), "bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := Decode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, bm.Format)
			assert.Equal(t, 64, bm.Width())
			assert.Equal(t, 32, bm.Height())
		})
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("not an image")},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := Decode(tt.data)
			require.Error(t, err)
			assert.Nil(t, bm)
			assert.Contains(t, err.Error(), "cannot identify image file")
		})
	}
}

func TestBitmap_PNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, blank(10, 10), nil))

	bm, err := Decode(src.Bytes())
	require.NoError(t, err)

	out, err := bm.PNG()
	require.NoError(t, err)

	again, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "png", again.Format)
	assert.Equal(t, 10, again.Width())
}

func TestBitmap_EngineInput(t *testing.T) {
	img := blank(40, 30)

	var pngBuf, jpegBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))
	require.NoError(t, jpeg.Encode(&jpegBuf, img, &jpeg.Options{Quality: 85}))
	require.NoError(t, bmp.Encode(&bmpBuf, img))

	tests := []struct {
		name          string
		data          []byte
		wantReencoded bool
	}{
		{"png passes through", pngBuf.Bytes(), false},
		{"jpeg passes through", jpegBuf.Bytes(), false},
		{"bmp becomes png", bmpBuf.Bytes(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := Decode(tt.data)
			require.NoError(t, err)

			out, reencoded, err := bm.EngineInput()
			require.NoError(t, err)
			assert.Equal(t, tt.wantReencoded, reencoded)

			if !tt.wantReencoded {
				assert.Equal(t, tt.data, out)
				return
			}
			again, err := Decode(out)
			require.NoError(t, err)
			assert.Equal(t, "png", again.Format)
			assert.Equal(t, 40, again.Width())
		})
	}
}

func TestZeroBytes(t *testing.T) {
	b := []byte("S1234567A")
	ZeroBytes(b)
	assert.Equal(t, make([]byte, 9), b)
}
