package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external program and whether the pipeline can run
// without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of checking one Requirement. Path is the resolved
// executable when Available.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries resolves every requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, checkBinary(req))
	}
	return results
}

func checkBinary(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	status.Path, status.Detail = resolve(status.Command)
	status.Available = status.Path != ""
	return status
}

// resolve returns the executable path for command, or a detail explaining
// why it could not be found.
func resolve(command string) (string, string) {
	if command == "" {
		return "", "command not configured"
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Sprintf("binary %q not found", command)
	}
	return path, ""
}
