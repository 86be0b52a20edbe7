package service

import (
	"context"
	"time"

	"github.com/sgdemo/nric-verify/internal/verification/domain"
	"github.com/sgdemo/nric-verify/internal/verification/extract"
	"github.com/sgdemo/nric-verify/internal/verification/imaging"
	"github.com/sgdemo/nric-verify/internal/verification/ocr"
	"github.com/sgdemo/nric-verify/pkg/errors"
	"github.com/sgdemo/nric-verify/pkg/logger"
)

// Service runs one upload through decode → recognize → extract.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	engine ocr.Engine
	loc    *time.Location
	now    func() time.Time
	log    *logger.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a verification service bound to an OCR engine
func NewService(engine ocr.Engine, log *logger.Logger, opts ...Option) (*Service, error) {
	loc, err := LoadTimeZone()
	if err != nil {
		return nil, err
	}

	s := &Service{
		engine: engine,
		loc:    loc,
		now:    time.Now,
		log:    log.WithComponent("verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Verify processes one uploaded image. The upload buffer is zeroed before
// Verify returns. Decode and OCR failures come back as processing errors
// carrying the collaborator's message; there are no partial results.
func (s *Service) Verify(ctx context.Context, upload []byte) (*domain.VerificationResponse, error) {
	defer imaging.ZeroBytes(upload)
	start := time.Now()

	bitmap, err := imaging.Decode(upload)
	if err != nil {
		return nil, errors.Processing(err)
	}

	input, reencoded, err := bitmap.EngineInput()
	if err != nil {
		return nil, errors.Processing(err)
	}
	if reencoded {
		defer imaging.ZeroBytes(input)
	}

	text, err := s.engine.Recognize(ctx, input)
	if err != nil {
		return nil, errors.Processing(err)
	}

	fields := extract.Extract(text)

	// Only sizes and flags are logged, never the text or the fields.
	s.log.Debug().
		Str("engine", s.engine.Name()).
		Str("format", bitmap.Format).
		Int("width", bitmap.Width()).
		Int("height", bitmap.Height()).
		Int("engine_input_bytes", len(input)).
		Bool("reencoded", reencoded).
		Int("text_length", len(text)).
		Bool("name_detected", fields.Name != domain.NotDetected).
		Bool("nric_detected", fields.NRICLast4 != domain.NotDetected).
		Dur("duration", time.Since(start)).
		Msg("verification completed")

	return &domain.VerificationResponse{
		Success:   true,
		OCRText:   text,
		Name:      fields.Name,
		NRICLast4: fields.NRICLast4,
		Timestamp: FormatTimestamp(s.now(), s.loc),
	}, nil
}

// Location returns the zone timestamps are rendered in
func (s *Service) Location() *time.Location {
	return s.loc
}
