package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sgdemo/nric-verify/internal/verification/domain"
)

// space matches Unicode whitespace; RE2's \s is ASCII only.
const space = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`

// The capture class includes whitespace, so a label match can run on into
// the next line. Callers treat the result as a display hint only.
var nameLabelPattern = regexp.MustCompile(`(?i)(?:NAME|Name):[` + space + `]*([A-Z][A-Za-z` + space + `]+)`)

const maxNameTokens = 3

// Name returns a display name found after a "NAME:" label, or failing that
// the first capitalized words of the text.
func Name(text string) string {
	if text == "" {
		return domain.NotDetected
	}

	if m := nameLabelPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimFunc(m[1], isSpace)
	}

	var capitalized []string
	for _, word := range strings.FieldsFunc(text, isSpace) {
		if isCapitalized(word) {
			capitalized = append(capitalized, word)
			if len(capitalized) == maxNameTokens {
				break
			}
		}
	}
	if len(capitalized) > 0 {
		return strings.Join(capitalized, " ")
	}

	return domain.NotDetected
}

func isCapitalized(word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(first) && utf8.RuneCountInString(word) > 2
}

// isSpace extends unicode.IsSpace with the ASCII information separators,
// which OCR engines emit as field breaks.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
