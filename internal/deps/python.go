package deps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autolrc/internal/services"
)

const moduleCheckTimeout = 20 * time.Second

// CommandName returns the executable of a whitespace-separated command line.
func CommandName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// CheckPythonModule reports whether python can import module. The interpreter
// is resolved on PATH first so a missing interpreter and a missing module give
// different details.
func CheckPythonModule(ctx context.Context, runner services.CommandRunner, python, module string) Status {
	status := checkBinary(Requirement{
		Name:        fmt.Sprintf("Python module %s", module),
		Command:     python,
		Description: "Used for vocal isolation",
		Optional:    true,
	})
	if !status.Available {
		return status
	}

	checkCtx, cancel := context.WithTimeout(ctx, moduleCheckTimeout)
	defer cancel()
	if _, err := services.RunnerOrDefault(runner)(checkCtx, status.Command, "-c", "import "+module); err != nil {
		status.Available = false
		status.Detail = fmt.Sprintf("cannot import %s (pip install %s)", module, module)
		return status
	}
	return status
}
