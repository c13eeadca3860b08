package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "lingotray") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_ListModels(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--list-models"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "claude-haiku-4-5-20251001") {
		t.Errorf("expected default model in output, got: %s", output)
	}
	if !strings.Contains(output, "gpt-4o-mini") {
		t.Errorf("expected gpt-4o-mini in output, got: %s", output)
	}
}

func TestRun_UnknownProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--provider", "bogus", "--config", "no-such-file.yaml"}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("err = %v", err)
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--definitely-not-a-flag"}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected flag parse error")
	}
}
