// Package ocr defines the contract between the verification pipeline and an
// OCR backend.
package ocr

import (
	"context"
	"errors"
)

// ErrEngineUnavailable is returned when a backend cannot be initialized
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// Engine recognizes text in an image.
//
// Implementations receive PNG or JPEG encoded bytes. They must not write the image
// or the recognized text to disk, logs, caches or any other store; the
// caller zeroes the buffer once Recognize returns.
type Engine interface {
	// Recognize returns the plain text found in the image. An image with no
	// text yields an empty string and a nil error.
	Recognize(ctx context.Context, img []byte) (string, error)

	// Name returns the engine name for logging
	Name() string
}

// EngineFunc adapts a function to the Engine interface
type EngineFunc func(ctx context.Context, img []byte) (string, error)

// Recognize calls f
func (f EngineFunc) Recognize(ctx context.Context, img []byte) (string, error) {
	return f(ctx, img)
}

// Name implements Engine
func (f EngineFunc) Name() string { return "func" }
