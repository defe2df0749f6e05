package domain_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"

	"github.com/randomtoy/oracle-go/internal/domain"
)

func TestValidateQuestion_Valid(t *testing.T) {
	q, err := domain.ValidateQuestion("오늘 운세는?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "오늘 운세는?" {
		t.Errorf("unexpected question: %q", q)
	}
}

func TestValidateQuestion_Trims(t *testing.T) {
	q, err := domain.ValidateQuestion("  will it rain?\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "will it rain?" {
		t.Errorf("unexpected question: %q", q)
	}
}

func TestValidateQuestion_Empty(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\n  "} {
		_, err := domain.ValidateQuestion(raw)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%q: expected ErrValidation, got %v", raw, err)
			continue
		}
		if err.Error() != domain.MsgQuestionRequired {
			t.Errorf("%q: unexpected message %q", raw, err.Error())
		}
	}
}

func TestValidateQuestion_TooLong(t *testing.T) {
	_, err := domain.ValidateQuestion(strings.Repeat("가", 501))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != domain.MsgQuestionTooLong {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidateQuestion_ExactlyMaxRunes(t *testing.T) {
	// 500 Hangul syllables are 1500 bytes but still a valid question.
	q := strings.Repeat("가", domain.MaxQuestionLength)
	if _, err := domain.ValidateQuestion(q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateQuestion_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.String().Draw(rt, "raw")
		q, err := domain.ValidateQuestion(raw)

		trimmed := strings.TrimSpace(raw)
		n := utf8.RuneCountInString(trimmed)
		if n == 0 || n > domain.MaxQuestionLength {
			if !errors.Is(err, domain.ErrValidation) {
				rt.Fatalf("expected ErrValidation for %d chars, got %v", n, err)
			}
			return
		}
		if err != nil {
			rt.Fatalf("unexpected error for %d chars: %v", n, err)
		}
		if q != trimmed {
			rt.Fatalf("expected %q, got %q", trimmed, q)
		}
	})
}

func TestRemainingChars(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 500},
		{"abc", 497},
		{"운세", 498},
		{strings.Repeat("x", 600), 0},
	}
	for _, c := range cases {
		if got := domain.RemainingChars(c.text); got != c.want {
			t.Errorf("RemainingChars(%d chars) = %d, want %d", utf8.RuneCountInString(c.text), got, c.want)
		}
	}
}
