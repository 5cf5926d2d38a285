package generation

import (
	"errors"
	"testing"
)

func TestResult_TextOr(t *testing.T) {
	ok := Result{Text: "generated"}
	if ok.Failed() {
		t.Error("successful result should not be failed")
	}
	if got := ok.TextOr("fallback"); got != "generated" {
		t.Errorf("TextOr = %q, want %q", got, "generated")
	}

	failed := Result{Err: &ProviderError{Model: "m", Err: errors.New("boom")}}
	if !failed.Failed() {
		t.Error("failed result should be failed")
	}
	if got := failed.TextOr("fallback"); got != "fallback" {
		t.Errorf("TextOr = %q, want %q", got, "fallback")
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	err := &ProviderError{Model: "gemini-2.5-flash", Err: ErrNotConfigured}

	if !errors.Is(err, ErrNotConfigured) {
		t.Error("expected errors.Is to find ErrNotConfigured")
	}
	if got := err.Error(); got != "generation with gemini-2.5-flash failed: generation provider is not configured" {
		t.Errorf("Error() = %q", got)
	}
}
