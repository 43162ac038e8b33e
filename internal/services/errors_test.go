package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"autolrc/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "converting", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"converting", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrInvalidInput, "transcribing", "", "empty transcript", nil), "invalid_input"},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrTransient, "transcribing", "gemini", "", nil)), "transient"},
		{services.Wrap(services.ErrFilesystem, "writing", "", "", errors.New("disk full")), "filesystem"},
		{services.Wrap(services.ErrInconclusive, "aligning", "", "", nil), "inconclusive"},
		{errors.New("plain"), "failed"},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if !services.Retryable(services.Wrap(services.ErrTransient, "", "", "", nil)) {
		t.Fatal("transient errors should be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrInvalidInput, "", "", "", nil)) {
		t.Fatal("invalid input should not be retryable")
	}
}
