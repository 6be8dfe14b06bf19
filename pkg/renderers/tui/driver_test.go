package tui

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
)

func TestStringValidatorAdaptsSurveyAnswers(t *testing.T) {
	t.Parallel()

	var seen []string
	errShort := errors.New("too short")
	validate := stringValidator(func(value string) error {
		seen = append(seen, value)
		if len(value) < 3 {
			return errShort
		}
		return nil
	})

	if err := validate("admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validate("ab"); !errors.Is(err, errShort) {
		t.Fatalf("expected errShort, got %v", err)
	}
	if err := validate(42); !errors.Is(err, errShort) {
		t.Fatalf("non string answers should validate as empty text, got %v", err)
	}
	if diff := cmp.Diff([]string{"admin", "ab", ""}, seen); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	t.Parallel()

	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	other := errors.New("boom")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("expected passthrough, got %v", err)
	}
	if got := indexOf([]string{"a", "b"}, "b"); got != 1 {
		t.Fatalf("indexOf = %d", got)
	}
}
