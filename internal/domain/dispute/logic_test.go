package dispute

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateReasonEmpty(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		if err := ValidateReason(reason); !errors.Is(err, ErrReasonEmpty) {
			t.Fatalf("ValidateReason(%q) = %v, want ErrReasonEmpty", reason, err)
		}
	}
}

func TestValidateReasonTooShort(t *testing.T) {
	if err := ValidateReason("too short"); !errors.Is(err, ErrReasonTooShort) {
		t.Fatalf("expected ErrReasonTooShort, got %v", err)
	}
	// Trailing whitespace must not count toward the minimum.
	if err := ValidateReason("  12345678  "); !errors.Is(err, ErrReasonTooShort) {
		t.Fatalf("expected ErrReasonTooShort for padded input, got %v", err)
	}
}

func TestValidateReasonBoundary(t *testing.T) {
	if err := ValidateReason(strings.Repeat("a", 9)); !errors.Is(err, ErrReasonTooShort) {
		t.Fatalf("expected 9 runes rejected, got %v", err)
	}
	if err := ValidateReason(strings.Repeat("a", 10)); err != nil {
		t.Fatalf("expected exactly 10 runes accepted, got %v", err)
	}
}

func TestValidateReasonCountsRunesNotBytes(t *testing.T) {
	// Ten Hangul syllables are well past ten bytes but exactly ten runes.
	if err := ValidateReason("누락된근무시간정산요"); err != nil {
		t.Fatalf("expected multibyte 10-rune reason accepted, got %v", err)
	}
}
