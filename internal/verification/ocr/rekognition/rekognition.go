package rekognition

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
)

// Engine sends images to AWS Rekognition DetectText. Credentials come from
// the standard AWS provider chain.
type Engine struct {
	client rekognitioniface.RekognitionAPI
}

// New creates a Rekognition engine for the given region
func New(region string) (*Engine, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return NewWithClient(rekognition.New(sess)), nil
}

// NewWithClient wraps an existing Rekognition client
func NewWithClient(client rekognitioniface.RekognitionAPI) *Engine {
	return &Engine{client: client}
}

func (e *Engine) Name() string { return "rekognition" }

// Recognize returns the detected LINE texts joined by newlines, in the order
// Rekognition reports them. DetectText takes PNG or JPEG up to 5 MB.
func (e *Engine) Recognize(ctx context.Context, img []byte) (string, error) {
	out, err := e.client.DetectTextWithContext(ctx, &rekognition.DetectTextInput{
		Image: &rekognition.Image{
			Bytes: img,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call AWS rekognition: %w", err)
	}

	lines := make([]string, 0, len(out.TextDetections))
	for _, det := range out.TextDetections {
		if aws.StringValue(det.Type) != rekognition.TextTypesLine {
			continue
		}
		lines = append(lines, aws.StringValue(det.DetectedText))
	}
	return strings.Join(lines, "\n"), nil
}
