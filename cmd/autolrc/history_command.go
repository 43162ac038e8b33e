package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"autolrc/internal/queue"
)

const historyTimeLayout = "2006-01-02 15:04"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var statuses []string
	var limit int
	var resetInterrupted bool
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs and jobs from the ledger",
		Long: "Show past runs and jobs from the ledger.\n" +
			"Without --run or --status the most recent runs are summarized.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter := queue.ListFilter{RunID: strings.TrimSpace(runID), Limit: limit}
			for _, value := range statuses {
				status, ok := queue.ParseStatus(strings.ToLower(strings.TrimSpace(value)))
				if !ok {
					return fmt.Errorf("unknown status %q", value)
				}
				filter.Statuses = append(filter.Statuses, status)
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			reqCtx := cmd.Context()
			if resetInterrupted {
				n, err := store.ResetInterrupted(reqCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Marked %d interrupted job(s) as failed\n", n)
			}
			if pruneDays > 0 {
				n, err := store.Prune(reqCtx, time.Now().AddDate(0, 0, -pruneDays))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d finished job(s) older than %d day(s)\n", n, pruneDays)
			}

			if filter.RunID == "" && len(filter.Statuses) == 0 {
				runs, err := store.Runs(reqCtx, limit)
				if err != nil {
					return err
				}
				printRuns(out, runs)
				return nil
			}
			jobs, err := store.List(reqCtx, filter)
			if err != nil {
				return err
			}
			printJobs(out, jobs)
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Show the jobs of one run")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only show jobs with these statuses (repeatable)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().BoolVar(&resetInterrupted, "reset-interrupted", false, "Mark jobs left unfinished by a crashed run as failed")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Delete finished jobs older than this many days")
	return cmd
}

func printRuns(out io.Writer, runs []queue.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.RunID,
			formatTimestamp(run.StartedAt),
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Completed),
			strconv.Itoa(run.Failed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Jobs", "Completed", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
}

func printJobs(out io.Writer, jobs []*queue.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No matching jobs")
		return
	}
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			shortID(job.ID),
			filepath.Base(job.SourcePath),
			colorStatus(job.Status, colorize),
			job.TimingSource,
			strconv.Itoa(job.WordCount),
			formatTimestamp(job.UpdatedAt),
			jobDetail(job),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Job", "File", "Status", "Timing", "Words", "Updated", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
}

func colorStatus(status queue.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	kind := statusInfo
	switch status {
	case queue.StatusCompleted:
		kind = statusOK
	case queue.StatusFailed:
		kind = statusError
	case queue.StatusPending:
		kind = statusWarn
	}
	return statusStyles[kind].color + string(status) + ansiReset
}

func jobDetail(job *queue.Job) string {
	if job.Status == queue.StatusFailed {
		if job.ErrorKind == "" {
			return job.ErrorMessage
		}
		return job.ErrorKind + ": " + job.ErrorMessage
	}
	if job.LRCPath != "" {
		return job.LRCPath
	}
	return job.ELRCPath
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(historyTimeLayout)
}
