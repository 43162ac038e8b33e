package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autolrc/internal/logging"
)

// CleanStaleResult lists what a sweep removed and what it could not.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// DirInfo describes one run directory.
type DirInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// CleanStale removes run directories under base older than maxAge. Entries
// that were not created by NewRun are left alone, and a cancelled ctx stops
// the sweep between directories.
func CleanStale(ctx context.Context, base string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	var result CleanStaleResult
	if logger == nil {
		logger = logging.NewNop()
	}
	runs, err := runDirs(base)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: base, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, run := range runs {
		if ctx.Err() != nil {
			break
		}
		if !run.ModTime.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(run.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: run.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale run directory", "staging_cleanup_failed",
				logging.String("path", run.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, run.Path)
		logger.Debug("removed stale run directory",
			logging.String(logging.FieldEventType, "staging_cleanup"),
			logging.String("path", run.Path),
			logging.Duration("age", time.Since(run.ModTime)),
		)
	}
	return result
}

// ListDirectories returns the run directories under base with their sizes.
func ListDirectories(base string) ([]DirInfo, error) {
	runs, err := runDirs(base)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		runs[i].Size = dirSize(runs[i].Path)
	}
	return runs, nil
}

// runDirs lists the NewRun directories directly under base. A missing or
// blank base yields nothing.
func runDirs(base string) ([]DirInfo, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || !IsRunDir(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, DirInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(base, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	return runs, nil
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}
