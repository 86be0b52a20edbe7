package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Config is the explicit bootstrap configuration for Tesseract.
type Config struct {
	// Languages to load, e.g. "eng"
	Languages []string
	// TessdataPrefix is the directory holding *.traineddata. Empty uses the
	// library default.
	TessdataPrefix string
	// PageSegMode overrides Tesseract's page segmentation. Zero keeps the default.
	PageSegMode gosseract.PageSegMode
}

// Engine runs OCR through the gosseract binding.
type Engine struct {
	cfg Config
}

// New constructs a Tesseract-backed OCR engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Name() string { return "tesseract" }

// Version reports the linked libtesseract version
func (e *Engine) Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}

// Recognize performs OCR on a single PNG or JPEG image. A fresh client is
// created per call since gosseract clients are not safe for concurrent use.
func (e *Engine) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if err := e.configure(c); err != nil {
		return "", err
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

func (e *Engine) configure(c *gosseract.Client) error {
	if e.cfg.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataPrefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(e.cfg.Languages) > 0 {
		if err := c.SetLanguage(e.cfg.Languages...); err != nil {
			return fmt.Errorf("set languages: %w", err)
		}
	}
	if e.cfg.PageSegMode != 0 {
		if err := c.SetPageSegMode(e.cfg.PageSegMode); err != nil {
			return fmt.Errorf("set page seg mode: %w", err)
		}
	}
	return nil
}
