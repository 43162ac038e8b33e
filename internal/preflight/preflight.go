package preflight

import (
	"context"
	"fmt"
	"strings"

	"autolrc/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory, ledger and API checks for cfg. The Gemini
// check only runs when an api key is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckLedger(ctx, cfg.LedgerPath()),
	}
	if cfg.Paths.InputDir != "" {
		results = append(results, CheckDirectoryAccess("Input directory", cfg.Paths.InputDir))
	}

	tc := cfg.Transcription
	if tc.APIKey != "" {
		results = append(results, CheckGemini(ctx, tc.BaseURL, tc.APIKey, tc.Model))
	} else if !tc.UseSidecarTranscripts {
		results = append(results, Result{Name: "Gemini API", Detail: "api key missing and sidecar transcripts are disabled"})
	}
	return results
}

// CheckRunDirectories checks the directories a batch writes into and returns
// an error naming every one that failed.
func CheckRunDirectories(outputDir, tempDir string) error {
	var failed []string
	for _, result := range []Result{
		CheckDirectoryAccess("Output directory", outputDir),
		CheckDirectoryAccess("Temp directory", tempDir),
	} {
		if !result.Passed {
			failed = append(failed, result.Name+": "+result.Detail)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
	}
	return nil
}
