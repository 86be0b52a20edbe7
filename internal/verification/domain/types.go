package domain

// NotDetected is returned by the extractors when nothing plausible was found
const NotDetected = "Not detected"

// ExtractionResult holds the best-effort fields pulled out of OCR text.
// NRICLast4 never holds more than four digits.
type ExtractionResult struct {
	Name      string
	NRICLast4 string
}

// VerificationResponse is the body of a successful POST /verify
type VerificationResponse struct {
	Success   bool   `json:"success"`
	OCRText   string `json:"ocr_text"`
	Name      string `json:"name"`
	NRICLast4 string `json:"nric_last_4"`
	Timestamp string `json:"timestamp"`
}
