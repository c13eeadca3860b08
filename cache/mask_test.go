package cache

import (
	"strings"
	"testing"
)

func TestMaskSensitive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"email", "write to john.doe+x@mail.example.org today", "write to [EMAIL] today"},
		{"url", "see https://example.com/a?b=c for details", "see [URL] for details"},
		{"long digits", "card 4111111111111111 here", "card [***] here"},
		{"short digits kept", "room 12345 floor 3", "room 12345 floor 3"},
		{"mixed", "mail a@b.co, visit http://x.io, pin 123456", "mail [EMAIL], visit [URL], pin [***]"},
		{"clean", "nothing sensitive here", "nothing sensitive here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskSensitive(tt.input); got != tt.want {
				t.Errorf("MaskSensitive(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafePreviewTruncates(t *testing.T) {
	long := strings.Repeat("あ", 150)
	got := SafePreview(long)
	if len([]rune(got)) != PreviewLength {
		t.Errorf("preview length = %d runes, want %d", len([]rune(got)), PreviewLength)
	}
}

func TestSafePreviewMasksBeforeTruncating(t *testing.T) {
	// The email sits across the truncation boundary; masking first means no
	// partial address can survive in the preview.
	input := strings.Repeat("x", 80) + " someone@example.com " + strings.Repeat("y", 30)
	got := SafePreview(input)

	if strings.Contains(got, "@") {
		t.Errorf("preview leaked part of an address: %q", got)
	}
	if !strings.Contains(got, "[EMAIL]") {
		t.Errorf("preview should contain the placeholder: %q", got)
	}
}

func TestKeyDeterministic(t *testing.T) {
	k1 := Key("hello", "m1")
	k2 := Key("hello", "m1")
	if k1 != k2 {
		t.Error("key must be deterministic")
	}
	if Key("hello", "m1") == Key("hello", "m2") {
		t.Error("key must include the model")
	}
	if Key("hello", "m1") != Key("  hello\n", "m1") {
		t.Error("key must trim surrounding whitespace")
	}
	if !strings.HasSuffix(k1, ":m1") {
		t.Errorf("key = %q, want model suffix", k1)
	}
}
