package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"autolrc/internal/preflight"
	"autolrc/internal/services"
	"autolrc/internal/staging"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, ledger, API access and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			renderSectionHeader(out, "Environment", colorize)
			rows := make([][]string, 0, 8)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				rows = append(rows, []string{result.Name, statusCell(kind, colorize), result.Detail})
			}
			rows = append(rows, stagingRow(cfg.Paths.TempDir, colorize))
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			renderSectionHeader(out, "External tools", colorize)
			rows = rows[:0]
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg, services.RunCommand) {
				kind := statusOK
				detail := status.Path
				switch {
				case status.Available:
				case status.Optional:
					kind = statusWarn
					detail = status.Detail
				default:
					kind = statusError
					detail = status.Detail
					failures++
				}
				if status.Description != "" {
					detail = strings.TrimSpace(detail + " (" + status.Description + ")")
				}
				rows = append(rows, []string{status.Name, statusCell(kind, colorize), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Status", "Detail"}, rows, nil))

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

// stagingRow reports run directories left in temp_dir by runs that did not
// finish their own cleanup. The next batch sweeps those older than a day.
func stagingRow(tempDir string, colorize bool) []string {
	const name = "Leftover run dirs"
	dirs, err := staging.ListDirectories(tempDir)
	if err != nil {
		return []string{name, statusCell(statusWarn, colorize), err.Error()}
	}
	if len(dirs) == 0 {
		return []string{name, statusCell(statusOK, colorize), "none"}
	}
	var total int64
	for _, dir := range dirs {
		total += dir.Size
	}
	return []string{
		name,
		statusCell(statusWarn, colorize),
		fmt.Sprintf("%d in %s (%s)", len(dirs), tempDir, humanize.IBytes(uint64(total))),
	}
}
