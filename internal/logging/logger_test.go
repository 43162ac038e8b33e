package logging_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autolrc/internal/config"
	"autolrc/internal/logging"
	"autolrc/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	var console bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, "run-1", &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file")
	logger.Debug("debug detail")

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, logging.LogFilePattern))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file, got %v (err %v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello file"`) || !strings.Contains(string(data), `"run_id":"run-1"`) {
		t.Fatalf("unexpected log file contents: %s", data)
	}
	if !strings.Contains(string(data), "debug detail") {
		t.Fatalf("expected debug records in log file, got %s", data)
	}
	if !strings.Contains(console.String(), "hello file") || strings.Contains(console.String(), "debug detail") {
		t.Fatalf("unexpected console output %q", console.String())
	}
}

func TestJSONDurationsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("stage done",
		logging.Duration("stage_duration", 2500*time.Millisecond),
		logging.Error(errors.New("ffmpeg exited")),
	)
	out := buf.String()
	for _, want := range []string{`"stage_duration":2.5`, `"error":"ffmpeg exited"`, `"level":"info"`, `"ts":`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got %s", want, out)
		}
	}
}

func TestConsoleDebugUsesLogfmt(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("emission parsed", logging.Int("frames", 120), logging.String("path", "/tmp/a b.json"))
	out := buf.String()
	for _, want := range []string{"DEBUG", "emission parsed", "frames=120", `path="/tmp/a b.json"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Output: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerSubjectAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithJobID(context.Background(), "0123456789abcdef")
	ctx = services.WithStage(ctx, "aligning")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "workflow")).Info("aligned",
		logging.String(logging.FieldEventType, "alignment_complete"),
		logging.Int("words", 42),
		logging.Duration("stage_duration", 1500*time.Millisecond),
	)

	out := buf.String()
	for _, want := range []string{"[workflow]", "Job 01234567 (aligning)", "aligned", "Event: alignment_complete", "Words: 42", "Duration: 1.5s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "vocal isolation skipped", "vocal_isolation_failed")
	out := buf.String()
	for _, want := range []string{`"event_type":"vocal_isolation_failed"`, `"error_hint"`, `"impact"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got %s", want, out)
		}
	}
}

func TestContextFields(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
	ctx := services.WithRunID(context.Background(), "run")
	ctx = services.WithJobID(ctx, "job")
	ctx = services.WithStage(ctx, "writing")
	fields := logging.ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != logging.FieldRunID || fields[1].Key != logging.FieldJobID || fields[2].Key != logging.FieldStage {
		t.Fatalf("unexpected field order: %v", fields)
	}
}

func TestFormatSubject(t *testing.T) {
	tests := []struct {
		job, stage, want string
	}{
		{"", "", ""},
		{"abc", "", "Job abc"},
		{"", "writing", "writing"},
		{"0123456789", "formatting", "Job 01234567 (formatting)"},
	}
	for _, tt := range tests {
		if got := logging.FormatSubject(tt.job, tt.stage); got != tt.want {
			t.Fatalf("FormatSubject(%q, %q) = %q, want %q", tt.job, tt.stage, got, tt.want)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "autolrc-20200101T000000.log")
	newPath := filepath.Join(dir, "autolrc-20990101T000000.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{oldPath, newPath, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	past := time.Now().AddDate(0, 0, -30)
	for _, p := range []string{oldPath, other} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	removed := logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{Dir: dir, Pattern: logging.LogFilePattern})
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	for _, p := range []string{newPath, other} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", p, err)
		}
	}
	if logging.CleanupOldLogs(nil, 0, logging.RetentionTarget{Dir: dir}) != 0 {
		t.Fatal("expected retention 0 to disable pruning")
	}
}
