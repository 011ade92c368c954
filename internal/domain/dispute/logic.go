package dispute

import (
	"strings"
	"unicode/utf8"
)

// MinReasonLength is the house-wide floor for free-text justifications,
// counted in runes after trimming so multibyte text is measured fairly.
const MinReasonLength = 10

// ValidateReason enforces the justification floor before anything is
// persisted. Empty and too-short are distinct failures so the caller can
// render a precise message.
func ValidateReason(reason string) error {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return ErrReasonEmpty
	}
	if utf8.RuneCountInString(trimmed) < MinReasonLength {
		return ErrReasonTooShort
	}
	return nil
}
