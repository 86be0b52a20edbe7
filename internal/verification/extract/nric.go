package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sgdemo/nric-verify/internal/verification/domain"
)

var (
	// Prefix letter, seven digits, check letter. Digits are any Unicode
	// decimal digit so full-width OCR output still matches.
	nricPattern = regexp.MustCompile(`(?i)[STFG]\p{Nd}{7}[A-Z]`)
	digitRun    = regexp.MustCompile(`\p{Nd}{7,}`)
)

// NRICLast4 returns the last four digits of the leftmost NRIC-style ID in
// text. Without one it falls back to the leftmost run of seven or more
// digits. The full ID is never returned.
func NRICLast4(text string) string {
	if text == "" {
		return domain.NotDetected
	}

	if id := nricPattern.FindString(text); id != "" {
		if digits := digitsOf(strings.ToUpper(id)); len(digits) >= 4 {
			return string(digits[len(digits)-4:])
		}
	}

	if run := digitRun.FindString(text); run != "" {
		digits := []rune(run)
		return string(digits[len(digits)-4:])
	}

	return domain.NotDetected
}

func digitsOf(s string) []rune {
	var digits []rune
	for _, r := range s {
		if unicode.Is(unicode.Nd, r) {
			digits = append(digits, r)
		}
	}
	return digits
}
