package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external program and returns its standard output.
// Tests substitute fakes to avoid spawning real tools.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand is the default CommandRunner. On failure the error carries the
// trimmed standard error of the process.
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// RunnerOrDefault returns runner, or RunCommand when runner is nil.
func RunnerOrDefault(runner CommandRunner) CommandRunner {
	if runner == nil {
		return RunCommand
	}
	return runner
}
