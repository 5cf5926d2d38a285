package distribution

import (
	"strings"
	"testing"
)

func TestContentHTML_ConvertsNewlines(t *testing.T) {
	got := ContentHTML(passthroughSanitizer{}, "line1\nline2\r\nline3")
	if got != "line1<br>line2<br>line3" {
		t.Errorf("ContentHTML = %q", got)
	}
}

func TestEmailHTML_Structure(t *testing.T) {
	got, err := EmailHTML("AutoMarketer", "Hello<br>World &amp; friends")
	if err != nil {
		t.Fatalf("EmailHTML failed: %v", err)
	}

	if !strings.HasPrefix(got, "<html><body") {
		t.Errorf("should start with <html><body: %q", got[:min(len(got), 40)])
	}
	for _, want := range []string{
		`<h1 style="color: #2c3e50; text-align: center;">Exclusive Offer from AutoMarketer</h1>`,
		"<hr",
		"Hello<br/>World &amp; friends",
		"Sent via <strong>AutoMarketer</strong> — Your AI Marketing Agent",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("EmailHTML should contain %q:\n%s", want, got)
		}
	}
}

func TestEmailHTML_EscapesSenderName(t *testing.T) {
	got, err := EmailHTML("<Acme>", "body")
	if err != nil {
		t.Fatalf("EmailHTML failed: %v", err)
	}
	if strings.Contains(got, "<Acme>") {
		t.Errorf("sender name should be escaped:\n%s", got)
	}
	if !strings.Contains(got, "&lt;Acme&gt;") {
		t.Errorf("escaped sender name not found:\n%s", got)
	}
}
