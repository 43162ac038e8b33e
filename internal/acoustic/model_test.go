package acoustic

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autolrc/internal/services"
)

const sampleOutput = `{
  "labels": ["-", "|", "A", "B"],
  "emissions": [[0.7, 0.1, 0.1, 0.1], [0.1, 0.1, 0.7, 0.1], [0.1, 0.7, 0.1, 0.1], [0.1, 0.1, 0.1, 0.7]],
  "num_samples": 6400,
  "sample_rate": 16000,
  "domain": "probs"
}`

func TestParse(t *testing.T) {
	res, err := Parse([]byte(sampleOutput), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Matrix.Frames() != 4 || res.Matrix.VocabSize() != 4 {
		t.Fatalf("unexpected shape %dx%d", res.Matrix.Frames(), res.Matrix.VocabSize())
	}
	if got := res.Matrix.At(1, 2); math.Abs(got-math.Log(0.7)) > 1e-12 {
		t.Fatalf("expected log-domain value, got %v", got)
	}
	if res.Vocabulary.Blank() != 0 || res.Vocabulary.WordSeparator() != 1 {
		t.Fatalf("unexpected special symbols: blank=%d sep=%d", res.Vocabulary.Blank(), res.Vocabulary.WordSeparator())
	}
	if fd := res.FrameDuration(); math.Abs(fd-0.1) > 1e-12 {
		t.Fatalf("frame duration = %v, want 0.1", fd)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad json", `{`},
		{"no labels", `{"labels": [], "emissions": [[0]], "num_samples": 1}`},
		{"column mismatch", `{"labels": ["-", "|"], "emissions": [[0, 0, 0]], "num_samples": 10, "sample_rate": 10}`},
		{"ragged", `{"labels": ["-", "|"], "emissions": [[0, 0], [0]], "num_samples": 10, "sample_rate": 10}`},
		{"no duration", `{"labels": ["-", "|"], "emissions": [[0, 0]]}`},
		{"unknown domain", `{"labels": ["-", "|"], "emissions": [[0, 0]], "num_samples": 10, "domain": "db"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc), 16000); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseFrameDurationOverrideAndDefaultRate(t *testing.T) {
	res, err := Parse([]byte(`{"labels": ["-", "|"], "emissions": [[0, 0], [0, 0]], "frame_duration": 0.02}`), 16000)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.FrameDuration() != 0.02 {
		t.Fatalf("expected override, got %v", res.FrameDuration())
	}
	if res.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", res.SampleRate)
	}
}

func TestEmitInvokesCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	runner := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		out := args[len(args)-1]
		return nil, os.WriteFile(out, []byte(sampleOutput), 0o644)
	}
	model := New(Config{Command: "python3 /opt/emit.py", Args: []string{"--model", "base"}}, runner)
	workDir := filepath.Join(t.TempDir(), "work")

	res, err := model.Emit(context.Background(), "/tmp/in.wav", workDir)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if gotName != "python3" {
		t.Fatalf("expected python3, got %q", gotName)
	}
	want := []string{"/opt/emit.py", "--model", "base", "/tmp/in.wav", filepath.Join(workDir, "emissions.json")}
	if strings.Join(gotArgs, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	if res.Matrix.Frames() != 4 {
		t.Fatalf("expected 4 frames, got %d", res.Matrix.Frames())
	}
	if model.Binary() != "python3" {
		t.Fatalf("unexpected binary %q", model.Binary())
	}
}

func TestEmitFailures(t *testing.T) {
	failing := func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}
	_, err := New(Config{Command: "emit"}, failing).Emit(context.Background(), "in.wav", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	silent := func(context.Context, string, ...string) ([]byte, error) { return nil, nil }
	_, err = New(Config{Command: "emit"}, silent).Emit(context.Background(), "in.wav", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected missing output to be an external tool error, got %v", err)
	}

	unset := New(Config{}, silent)
	if unset.Available() {
		t.Fatal("expected unavailable model")
	}
	if _, err := unset.Emit(context.Background(), "in.wav", t.TempDir()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
