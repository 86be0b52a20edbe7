// Package extract pulls a candidate name and the last four digits of an
// NRIC-style ID out of raw OCR text. Both extractors are best effort and never
// fail: when nothing matches they return domain.NotDetected.
package extract

import (
	"github.com/sgdemo/nric-verify/internal/verification/domain"
)

// Extract runs both heuristics over text
func Extract(text string) domain.ExtractionResult {
	return domain.ExtractionResult{
		Name:      Name(text),
		NRICLast4: NRICLast4(text),
	}
}
