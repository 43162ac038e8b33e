package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" || !results[2].Optional {
		t.Fatalf("unexpected unset result: %#v", results[2])
	}
}

func TestCommandName(t *testing.T) {
	tests := map[string]string{
		"":                               "",
		"   ":                            "",
		"wav2vec2-emit":                  "wav2vec2-emit",
		"  python3 -m emit --model base": "python3",
	}
	for input, want := range tests {
		if got := CommandName(input); got != want {
			t.Errorf("CommandName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCheckPythonModule(t *testing.T) {
	python := writeStub(t, "python3")

	var gotArgs []string
	ok := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return nil, nil
	}
	status := CheckPythonModule(context.Background(), ok, python, "demucs")
	if !status.Available {
		t.Fatalf("expected module available, got %#v", status)
	}
	if len(gotArgs) != 3 || gotArgs[1] != "-c" || gotArgs[2] != "import demucs" {
		t.Fatalf("unexpected invocation %v", gotArgs)
	}

	failing := func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("ModuleNotFoundError")
	}
	status = CheckPythonModule(context.Background(), failing, python, "demucs")
	if status.Available || status.Detail == "" || !status.Optional {
		t.Fatalf("expected missing module, got %#v", status)
	}

	status = CheckPythonModule(context.Background(), ok, "clearly-not-a-python", "demucs")
	if status.Available || status.Detail != `binary "clearly-not-a-python" not found` {
		t.Fatalf("expected missing interpreter, got %#v", status)
	}
}
