package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autolrc/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckGemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "good-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/models/gemini-test" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		base   string
		key    string
		model  string
		passed bool
		detail string
	}{
		{"ok", srv.URL, "good-key", "gemini-test", true, "reachable"},
		{"bad key", srv.URL, "bad-key", "gemini-test", false, "invalid api key"},
		{"unknown model", srv.URL, "good-key", "gemini-nope", false, "not found"},
		{"missing key", srv.URL, "", "gemini-test", false, "api key missing"},
		{"missing url", "", "good-key", "gemini-test", false, "missing base url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckGemini(context.Background(), tt.base, tt.key, tt.model)
			if result.Passed != tt.passed {
				t.Fatalf("passed = %v, want %v (%s)", result.Passed, tt.passed, result.Detail)
			}
			if !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("detail %q does not mention %q", result.Detail, tt.detail)
			}
		})
	}
}

func TestCheckLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "ledger.db")
	result := CheckLedger(context.Background(), path)
	if !result.Passed {
		t.Fatalf("expected fresh ledger to pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "0 jobs") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckSystemDepsOptionalAcousticWithFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Alignment.AcousticCommand = ""
	cfg.VocalIsolation.Enabled = false

	cfg.Alignment.Fallback = "none"
	statuses := CheckSystemDeps(context.Background(), &cfg, nil)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if acoustic := statuses[2]; acoustic.Available || acoustic.Optional {
		t.Fatalf("acoustic model must be required without fallback: %#v", acoustic)
	}

	cfg.Alignment.Fallback = "even"
	statuses = CheckSystemDeps(context.Background(), &cfg, nil)
	if !statuses[2].Optional {
		t.Fatal("acoustic model should be optional with a fallback strategy")
	}
}

func TestCheckSystemDepsIncludesDemucsWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.VocalIsolation.Enabled = true
	cfg.VocalIsolation.Python = "clearly-not-a-python"
	statuses := CheckSystemDeps(context.Background(), &cfg, nil)
	last := statuses[len(statuses)-1]
	if !strings.Contains(last.Name, "demucs") || last.Available {
		t.Fatalf("expected unavailable demucs check, got %#v", last)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = ""
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Transcription.APIKey = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("%s failed: %s", result.Name, result.Detail)
		}
	}
}

func TestRunAll_FlagsMissingTranscriptionSource(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = ""
	cfg.Paths.OutputDir = base
	cfg.Paths.TempDir = base
	cfg.Paths.LogDir = base
	cfg.Paths.StateDir = base
	cfg.Transcription.APIKey = ""
	cfg.Transcription.UseSidecarTranscripts = false

	results := RunAll(context.Background(), &cfg)
	last := results[len(results)-1]
	if last.Name != "Gemini API" || last.Passed {
		t.Fatalf("expected failing Gemini result, got %+v", last)
	}
}

func TestCheckRunDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := CheckRunDirectories(dir, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	missing := filepath.Join(dir, "missing")
	err := CheckRunDirectories(dir, missing)
	if err == nil {
		t.Fatal("expected error for missing temp dir")
	}
	if !strings.Contains(err.Error(), "Temp directory") || strings.Contains(err.Error(), "Output directory") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
