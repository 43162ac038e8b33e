package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	runPrefix = "run-"
	jobPrefix = "job-"
)

// Run is the temp root for one batch run.
type Run struct {
	ID   string
	Root string
}

// NewRun creates a fresh run directory under base. An empty id gets a new UUID.
func NewRun(base, id string) (*Run, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, fmt.Errorf("staging: temp dir is empty")
	}
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	root := filepath.Join(base, runPrefix+id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("staging: create run dir: %w", err)
	}
	return &Run{ID: id, Root: root}, nil
}

// JobDir creates the working directory for jobID inside the run.
func (r *Run) JobDir(jobID string) (string, error) {
	if strings.TrimSpace(jobID) == "" {
		return "", fmt.Errorf("staging: job id is empty")
	}
	dir := filepath.Join(r.Root, jobPrefix+jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("staging: create job dir: %w", err)
	}
	return dir, nil
}

// Remove deletes the run root and everything below it.
func (r *Run) Remove() error {
	if r == nil || r.Root == "" {
		return nil
	}
	return os.RemoveAll(r.Root)
}

// IsRunDir reports whether name looks like a run root created by NewRun.
func IsRunDir(name string) bool {
	return strings.HasPrefix(name, runPrefix) && len(name) > len(runPrefix)
}
