package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"autolrc/internal/acoustic"
	"autolrc/internal/config"
	"autolrc/internal/media/ffprobe"
	"autolrc/internal/queue"
	"autolrc/internal/workflow"
)

const testTranscript = "la la la land"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Transcription.APIKey = ""
	cfg.Alignment.AcousticCommand = ""
	cfg.Alignment.Fallback = "none"
	cfg.Workflow.MaxConcurrency = 2
	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}
	return &cfg
}

func openLedger(t *testing.T, cfg *config.Config) *queue.Store {
	t.Helper()
	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// writeAudio creates a placeholder audio file and, when transcript is
// non-empty, its sidecar transcript.
func writeAudio(t *testing.T, dir, name, transcript string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if transcript != "" {
		sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
		if err := os.WriteFile(sidecar, []byte(transcript), 0o644); err != nil {
			t.Fatalf("write transcript: %v", err)
		}
	}
	return path
}

type fakeConverter struct {
	mu      sync.Mutex
	fail    map[string]error
	samples []float64
	calls   []string
}

func (f *fakeConverter) ToWAV(_ context.Context, source string, _ int, dest string) error {
	f.mu.Lock()
	f.calls = append(f.calls, source)
	err := f.fail[filepath.Base(source)]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

func (f *fakeConverter) DecodePCM(context.Context, string) ([]float64, error) {
	return f.samples, nil
}

func (f *fakeConverter) Rate() int { return 16000 }

type fakeTranscriber struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	// failOn makes only that call (1-based) return err.
	failOn int
}

func (f *fakeTranscriber) TranscribeFile(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn > 0 && f.calls != f.failOn {
		return f.text, nil
	}
	return f.text, f.err
}

func (f *fakeTranscriber) Model() string { return "fake-model" }

func (f *fakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeEmitter returns a synthetic emission matrix in which every transcript
// character is clearly spoken for one frame, followed by a blank frame.
type fakeEmitter struct {
	script string
	err    error
	empty  bool
	// afterEmit runs once the result is built, before it is returned.
	afterEmit func()

	mu      sync.Mutex
	calls   int
	panicOn int
}

func (f *fakeEmitter) Available() bool { return true }

func (f *fakeEmitter) Emit(_ context.Context, _ string, workDir string) (acoustic.Result, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	if f.panicOn > 0 && call == f.panicOn {
		panic("emission decoder blew up")
	}
	if f.err != nil {
		return acoustic.Result{}, f.err
	}
	if f.empty {
		return acoustic.Result{}, nil
	}
	data := emissionJSON(f.script)
	if err := os.WriteFile(filepath.Join(workDir, "emissions.json"), data, 0o644); err != nil {
		return acoustic.Result{}, err
	}
	result, err := acoustic.Parse(data, 16000)
	if f.afterEmit != nil {
		f.afterEmit()
	}
	return result, err
}

func emissionJSON(script string) []byte {
	labels := []string{"-", "|"}
	for r := 'a'; r <= 'z'; r++ {
		labels = append(labels, string(r))
	}
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	row := func(target int) []float64 {
		out := make([]float64, len(labels))
		for i := range out {
			out[i] = 0.1 / float64(len(labels)-1)
		}
		out[target] = 0.9
		return out
	}
	var rows [][]float64
	for _, word := range strings.Fields(strings.ToLower(script)) {
		for _, r := range word {
			rows = append(rows, row(index[string(r)]), row(0))
		}
		rows = append(rows, row(1), row(0))
	}
	data, _ := json.Marshal(map[string]any{
		"labels":         labels,
		"emissions":      rows,
		"num_samples":    len(rows) * 320,
		"sample_rate":    16000,
		"domain":         "probs",
		"blank":          "-",
		"word_separator": "|",
	})
	return data
}

type fakeIsolator struct {
	err error
}

func (f *fakeIsolator) Isolate(_ context.Context, _ string, workDir string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(workDir, "vocals.wav")
	return path, os.WriteFile(path, []byte("RIFF"), 0o644)
}

func probeWithDuration(duration string) workflow.ProbeFunc {
	return func(context.Context, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{Index: 0, CodecType: "audio", Channels: 2}},
			Format:  ffprobe.Format{Duration: duration},
		}, nil
	}
}

func newManager(t *testing.T, cfg *config.Config, opts workflow.Options) *workflow.Manager {
	t.Helper()
	mgr, err := workflow.NewManager(cfg, nil, opts)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertNoRunDirs(t *testing.T, tempDir string) {
	t.Helper()
	entries, err := os.ReadDir(tempDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read temp dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "run-") {
			t.Fatalf("run directory %s was not cleaned up", entry.Name())
		}
	}
}
