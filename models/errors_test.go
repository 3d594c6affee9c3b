package models

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewErrorItem_Truncation(t *testing.T) {
	long := strings.Repeat("x", 500)

	item := NewErrorItem(PhaseInteraction, long)

	if len(item.Message) != maxErrorMessageLen {
		t.Errorf("message length = %d, want %d", len(item.Message), maxErrorMessageLen)
	}
	if item.Phase != PhaseInteraction {
		t.Errorf("phase = %q, want %q", item.Phase, PhaseInteraction)
	}
}

func TestNewErrorItem_MultibyteTruncation(t *testing.T) {
	long := strings.Repeat("界", 300)

	item := NewErrorItem(PhaseRender, long)

	if !utf8.ValidString(item.Message) {
		t.Error("truncation must not split a rune")
	}
	if got := utf8.RuneCountInString(item.Message); got != maxErrorMessageLen {
		t.Errorf("rune count = %d, want %d", got, maxErrorMessageLen)
	}
}

func TestNewErrorItem_ShortMessageUnchanged(t *testing.T) {
	item := NewErrorItem(PhaseFetch, "Request timeout")

	if item.Message != "Request timeout" {
		t.Errorf("message = %q", item.Message)
	}
}

func TestScrapeError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewScrapeError(ErrCodeNavigation, "navigation to target URL failed", inner)

	if !strings.Contains(err.Error(), ErrCodeNavigation) {
		t.Errorf("Error() should contain the code: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should expose the wrapped error")
	}

	detail := err.ToDetail()
	if detail.Code != ErrCodeNavigation || detail.Message != "navigation to target URL failed" {
		t.Errorf("unexpected detail: %+v", detail)
	}
}

func TestNewInteractions(t *testing.T) {
	ia := NewInteractions("https://example.com/")

	if len(ia.Pages) != 1 || ia.Pages[0] != "https://example.com/" {
		t.Errorf("pages should be seeded with the original URL: %v", ia.Pages)
	}
	if ia.Clicks == nil {
		t.Error("clicks should serialize as an empty list, not null")
	}
	if ia.Scrolls != 0 {
		t.Errorf("scrolls = %d, want 0", ia.Scrolls)
	}
}
