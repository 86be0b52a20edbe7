package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/sgdemo/nric-verify/internal/verification/domain"
	"github.com/sgdemo/nric-verify/internal/verification/imaging"
	"github.com/sgdemo/nric-verify/internal/verification/ocr"
	rekengine "github.com/sgdemo/nric-verify/internal/verification/ocr/rekognition"
	apperrors "github.com/sgdemo/nric-verify/pkg/errors"
	"github.com/sgdemo/nric-verify/pkg/logger"
	"github.com/sgdemo/nric-verify/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

var fixedNow = time.Date(2025, 3, 14, 6, 30, 15, 0, time.UTC)

func newTestService(t *testing.T, engine ocr.Engine) *Service {
	t.Helper()
	svc, err := NewService(engine, logger.NewNop(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return svc
}

func staticEngine(text string) ocr.Engine {
	return ocr.EngineFunc(func(ctx context.Context, img []byte) (string, error) {
		if _, err := imaging.Decode(img); err != nil {
			return "", err
		}
		return text, nil
	})
}

func TestVerify_Success(t *testing.T) {
	svc := newTestService(t, staticEngine("REPUBLIC OF SINGAPORE\nNAME: TAN AH KOW\nS1234567A"))

	resp, err := svc.Verify(context.Background(), testutil.BlankPNG(t, 640, 480))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "REPUBLIC OF SINGAPORE\nNAME: TAN AH KOW\nS1234567A", resp.OCRText)
	assert.Contains(t, resp.Name, "TAN AH KOW")
	assert.Equal(t, "4567", resp.NRICLast4)
	assert.Equal(t, "2025-03-14 14:30:15 +08", resp.Timestamp)
}

func TestVerify_BlankImage(t *testing.T) {
	svc := newTestService(t, staticEngine(""))

	resp, err := svc.Verify(context.Background(), testutil.BlankPNG(t, 640, 480))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Empty(t, resp.OCRText)
	assert.Equal(t, domain.NotDetected, resp.Name)
	assert.Equal(t, domain.NotDetected, resp.NRICLast4)
}

func TestVerify_DecodeFailures(t *testing.T) {
	called := false
	engine := ocr.EngineFunc(func(ctx context.Context, img []byte) (string, error) {
		called = true
		return "S1234567A", nil
	})
	svc := newTestService(t, engine)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty payload", []byte{}},
		{"not an image", []byte("not an image")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Verify(context.Background(), tt.data)
			require.Error(t, err)
			assert.Nil(t, resp)

			var appErr *apperrors.AppError
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, 500, appErr.StatusCode)
			assert.Contains(t, appErr.Message, "cannot identify image file")
			assert.False(t, called, "engine must not run on undecodable input")
		})
	}
}

func TestVerify_EngineFailure(t *testing.T) {
	cause := errors.New("tesseract: failed loading language 'eng'")
	svc := newTestService(t, ocr.EngineFunc(func(ctx context.Context, img []byte) (string, error) {
		return "", cause
	}))

	resp, err := svc.Verify(context.Background(), testutil.BlankPNG(t, 10, 10))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperrors.ErrProcessing)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, cause.Error(), appErr.Message)
}

func TestVerify_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	var seen interface{}
	svc := newTestService(t, ocr.EngineFunc(func(ctx context.Context, img []byte) (string, error) {
		seen = ctx.Value(key{})
		return "", nil
	}))

	_, err := svc.Verify(ctx, testutil.BlankPNG(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, "marker", seen)
}

func TestVerify_ZeroesUpload(t *testing.T) {
	svc := newTestService(t, staticEngine("S1234567A"))
	upload := testutil.BlankPNG(t, 10, 10)

	_, err := svc.Verify(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len(upload)), upload)
}

func TestVerify_DefaultClockIsSingaporeTime(t *testing.T) {
	svc, err := NewService(staticEngine(""), logger.NewNop())
	require.NoError(t, err)

	before := time.Now().Truncate(time.Second)
	resp, err := svc.Verify(context.Background(), testutil.BlankPNG(t, 10, 10))
	require.NoError(t, err)

	ts, err := ParseTimestamp(resp.Timestamp, svc.Location())
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 8*3600, offset)
	assert.False(t, ts.Before(before))
	assert.WithinDuration(t, time.Now(), ts, 5*time.Second)
}

// detectTextClient records the image bytes at call time, before the service
// zeroes the upload.
type detectTextClient struct {
	rekognitioniface.RekognitionAPI
	got []byte
}

func (c *detectTextClient) DetectTextWithContext(_ aws.Context, in *rekognition.DetectTextInput, _ ...request.Option) (*rekognition.DetectTextOutput, error) {
	c.got = append([]byte(nil), in.Image.Bytes...)
	return &rekognition.DetectTextOutput{
		TextDetections: []*rekognition.TextDetection{
			{Type: aws.String(rekognition.TextTypesLine), DetectedText: aws.String("S1234567A")},
		},
	}, nil
}

// photo returns a noisy image; noise compresses well as JPEG and badly as PNG.
func photo(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed = seed*1664525 + 1013904223
			img.Set(x, y, color.RGBA{R: uint8(seed >> 24), G: uint8(seed >> 16), B: uint8(seed >> 8), A: 0xff})
		}
	}
	return img
}

func TestVerify_JPEGReachesRekognitionUnchanged(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, photo(800, 600), &jpeg.Options{Quality: 80}))
	upload := buf.Bytes()
	original := append([]byte(nil), upload...)

	client := &detectTextClient{}
	svc := newTestService(t, rekengine.NewWithClient(client))

	resp, err := svc.Verify(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, "4567", resp.NRICLast4)

	assert.Equal(t, original, client.got)
	bm, err := imaging.Decode(client.got)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", bm.Format)
}

func TestVerify_BMPReachesEngineAsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, photo(32, 24)))

	var format string
	svc := newTestService(t, ocr.EngineFunc(func(ctx context.Context, img []byte) (string, error) {
		bm, err := imaging.Decode(img)
		if err != nil {
			return "", err
		}
		format = bm.Format
		return "", nil
	}))

	_, err := svc.Verify(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}
