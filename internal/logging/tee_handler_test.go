package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTeeHandlerCollapses(t *testing.T) {
	if _, ok := newTeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every sink is nil")
	}
	single := slog.NewTextHandler(&bytes.Buffer{}, nil)
	if got := newTeeHandler(nil, single); got != single {
		t.Fatal("expected the lone sink to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsPerSinkLevels(t *testing.T) {
	var console, file bytes.Buffer
	logger := slog.New(newTeeHandler(
		slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)).With("component", "workflow")

	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled while any sink accepts it")
	}
	logger.Debug("stage started")
	logger.Info("batch finished")

	if strings.Contains(console.String(), "stage started") {
		t.Fatalf("console should not receive debug records: %s", console.String())
	}
	for _, want := range []string{"stage started", "batch finished", `"component":"workflow"`} {
		if !strings.Contains(file.String(), want) {
			t.Fatalf("expected %s in file sink, got %s", want, file.String())
		}
	}
}

func TestTeeHandlerWithGroup(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(newTeeHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))).WithGroup("align")
	logger.Info("done", "words", 3)
	for _, out := range []string{a.String(), b.String()} {
		if !strings.Contains(out, `"align":{"words":3}`) {
			t.Fatalf("expected grouped attrs, got %s", out)
		}
	}
}
