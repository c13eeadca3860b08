package provider

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ZaguanLabs/lingotray"
)

func drain(t *testing.T, stream EventStream) (string, StreamEvent) {
	t.Helper()
	var text string
	var last StreamEvent
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if ev.Type == lingotray.EventDelta {
			text += ev.Text
		}
		last = ev
	}
	return text, last
}

func TestMockStreamProviderKnownInput(t *testing.T) {
	m := NewMockStreamProvider()
	stream, err := m.TranslateStream(context.Background(), TranslateRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("TranslateStream: %v", err)
	}

	text, last := drain(t, stream)
	if text != "こんにちは" {
		t.Errorf("text = %q", text)
	}
	if last.Type != lingotray.EventCompleted {
		t.Errorf("terminal event = %v, want Completed", last.Type)
	}
	if m.Calls() != 1 {
		t.Errorf("calls = %d", m.Calls())
	}
}

func TestMockStreamProviderUnknownInput(t *testing.T) {
	m := NewMockStreamProvider()
	stream, err := m.TranslateStream(context.Background(), TranslateRequest{Text: "unmapped"})
	if err != nil {
		t.Fatalf("TranslateStream: %v", err)
	}

	text, _ := drain(t, stream)
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		t.Errorf("text = %q, want bracketed fallback", text)
	}
}

func TestMockStreamProviderStreamError(t *testing.T) {
	m := NewMockStreamProvider()
	m.StreamErr = &lingotray.ClassifiedError{
		Kind:      lingotray.KindOverloaded,
		Message:   "scripted failure",
		Retryable: true,
	}

	stream, err := m.TranslateStream(context.Background(), TranslateRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("TranslateStream: %v", err)
	}

	_, last := drain(t, stream)
	if last.Type != lingotray.EventFailed {
		t.Fatalf("terminal event = %v, want Failed", last.Type)
	}
	if last.Err.Kind != lingotray.KindOverloaded {
		t.Errorf("kind = %v", last.Err.Kind)
	}
}

func TestSystemPromptForPair(t *testing.T) {
	if got := SystemPromptForPair("", ""); got != DefaultSystemPrompt {
		t.Error("empty pair should use the default prompt")
	}
	got := SystemPromptForPair("en", "ja")
	if !strings.Contains(got, "English") || !strings.Contains(got, "Japanese") {
		t.Errorf("prompt missing language names: %q", got)
	}
	got = SystemPromptForPair("", "de")
	if !strings.Contains(got, "Detect the source language") || !strings.Contains(got, "German") {
		t.Errorf("detect prompt wrong: %q", got)
	}
}
