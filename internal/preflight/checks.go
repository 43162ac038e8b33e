package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"autolrc/internal/config"
	"autolrc/internal/deps"
	"autolrc/internal/queue"
	"autolrc/internal/services"
)

const geminiCheckTimeout = 10 * time.Second

// CheckGemini verifies that the Gemini API accepts apiKey and serves model.
// It makes a single metadata request and never retries.
func CheckGemini(ctx context.Context, baseURL, apiKey, model string) Result {
	const name = "Gemini API"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "api key missing; only transcript files can be used"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, geminiCheckTimeout)
	defer cancel()

	endpoint := base + "/models/" + url.PathEscape(strings.TrimSpace(model))
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	req.Header.Set("x-goog-api-key", strings.TrimSpace(apiKey))

	client := &http.Client{Timeout: geminiCheckTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (model %s)", model)}
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	case http.StatusNotFound:
		return Result{Name: name, Detail: fmt.Sprintf("model %q not found", model)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckLedger opens the job ledger and runs its integrity check.
func CheckLedger(ctx context.Context, path string) Result {
	const name = "Job ledger"

	store, err := queue.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	health, err := store.CheckHealth(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(health.MissingColumns) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (missing columns: %s)", path, strings.Join(health.MissingColumns, ", "))}
	}
	if !health.IntegrityCheck {
		return Result{Name: name, Detail: fmt.Sprintf("%s (integrity check failed)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d jobs)", path, health.TotalJobs)}
}

// CheckSystemDeps evaluates the external programs the configured pipeline
// runs. The acoustic command is optional when a fallback timing strategy is
// configured; Demucs is optional because isolation failures only degrade a job.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, runner services.CommandRunner) []deps.Status {
	fallback := strings.TrimSpace(cfg.Alignment.Fallback)
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio conversion",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for audio inspection",
		},
		{
			Name:        "Acoustic model",
			Command:     deps.CommandName(cfg.Alignment.AcousticCommand),
			Description: "Produces emission matrices for forced alignment",
			Optional:    fallback != "" && fallback != "none",
		},
	}
	results := deps.CheckBinaries(requirements)
	if cfg.VocalIsolation.Enabled {
		results = append(results, deps.CheckPythonModule(ctx, runner, cfg.VocalIsolation.Python, "demucs"))
	}
	return results
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (API unreachable)"
	}
	return err.Error()
}
