package vocals

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autolrc/internal/fileutil"
	"autolrc/internal/services"
	"autolrc/internal/textutil"
)

const (
	stageName    = "isolating"
	DefaultModel = "htdemucs"
	defaultPy    = "python3"
)

// stem names Demucs has used for the vocal track across releases.
var stemCandidates = []string{"vocals.wav", "vocals", "vocal.wav", "voice.wav"}

// Config captures how Demucs is invoked.
type Config struct {
	Python  string
	Model   string
	Timeout time.Duration
}

// Isolator runs Demucs through a command runner.
type Isolator struct {
	cfg    Config
	runner services.CommandRunner
}

// New constructs an Isolator. A nil runner uses services.RunCommand.
func New(cfg Config, runner services.CommandRunner) *Isolator {
	if strings.TrimSpace(cfg.Python) == "" {
		cfg.Python = defaultPy
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	return &Isolator{cfg: cfg, runner: services.RunnerOrDefault(runner)}
}

// Isolate writes the vocal stem of source under workDir and returns its path.
// Demucs is handed an ASCII-named copy of the input because it mangles
// non-ASCII output folder names.
func (i *Isolator) Isolate(ctx context.Context, source, workDir string) (string, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrDegraded, stageName, "prepare", "create work dir", err)
	}
	safeInput := filepath.Join(workDir, textutil.ASCIIFileName(filepath.Base(source)))
	if err := fileutil.CopyFile(source, safeInput); err != nil {
		return "", services.Wrap(services.ErrDegraded, stageName, "prepare", "copy input", err)
	}
	defer os.Remove(safeInput)

	outDir := filepath.Join(workDir, "demucs")
	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}
	args := []string{
		"-m", "demucs.separate",
		"--two-stems=vocals",
		"-n", i.cfg.Model,
		"--out", outDir,
		safeInput,
	}
	if _, err := i.runner(ctx, i.cfg.Python, args...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrDegraded, stageName, "demucs", fmt.Sprintf("timed out after %s", i.cfg.Timeout), err)
		}
		return "", services.Wrap(services.ErrDegraded, stageName, "demucs", "separation failed", err)
	}

	stem := strings.TrimSuffix(filepath.Base(safeInput), filepath.Ext(safeInput))
	found, err := FindVocals(filepath.Join(outDir, i.cfg.Model, stem))
	if err != nil {
		return "", services.Wrap(services.ErrDegraded, stageName, "demucs", "locate vocals stem", err)
	}
	return found, nil
}

// FindVocals looks for the vocal stem inside a Demucs track directory.
func FindVocals(dir string) (string, error) {
	for _, name := range stemCandidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !strings.HasSuffix(name, ".wav") {
			continue
		}
		if strings.Contains(name, "vocal") && !strings.HasPrefix(name, "no_") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no vocals stem in %s", dir)
}
