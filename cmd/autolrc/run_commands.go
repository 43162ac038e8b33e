package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"autolrc/internal/config"
	"autolrc/internal/lyrics"
	"autolrc/internal/preflight"
	"autolrc/internal/queue"
	"autolrc/internal/services"
	"autolrc/internal/workflow"
)

type runOptions struct {
	output      string
	concurrency int
	fallback    string
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Directory for lyric files (default paths.output_dir)")
	cmd.Flags().StringVar(&o.fallback, "fallback", "", "Timing fallback when no acoustic model is configured (none, even, onset)")
}

// apply folds command-line overrides into cfg.
func (o *runOptions) apply(cfg *config.Config) error {
	if o.concurrency > 0 {
		cfg.Workflow.MaxConcurrency = o.concurrency
	}
	if strings.TrimSpace(o.fallback) != "" {
		strategy, err := lyrics.ParseStrategy(o.fallback)
		if err != nil {
			return err
		}
		cfg.Alignment.Fallback = string(strategy)
	}
	return nil
}

func (o *runOptions) outputDir() (string, error) {
	if strings.TrimSpace(o.output) == "" {
		return "", nil
	}
	dir, err := config.ExpandPath(strings.TrimSpace(o.output))
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	return dir, nil
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Generate lyric files for every audio file under the given paths",
		Long: "Generate lyric files for every audio file under the given paths.\n" +
			"Directories are searched recursively; paths.input_dir is used when no path is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			paths := args
			if len(paths) == 0 {
				if cfg.Paths.InputDir == "" {
					return errors.New("no input paths given and paths.input_dir is not set")
				}
				paths = []string{cfg.Paths.InputDir}
			}
			inputs, err := workflow.Discover(paths, cfg.Workflow.Extensions)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(inputs) == 0 {
				fmt.Fprintln(out, "No audio files found")
				return nil
			}

			summary, err := runInputs(cmd, ctx, &opts, inputs)
			if err != nil {
				return err
			}
			printSummary(out, summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed (see autolrc history --run %s)", summary.Failed, summary.Attempted, summary.RunID)
			}
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "Maximum files processed at once (default workflow.max_concurrency)")
	return cmd
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions
	var transcript string

	cmd := &cobra.Command{
		Use:   "align <audio>",
		Short: "Generate lyric files for a single audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve audio path: %w", err)
			}
			input := workflow.Input{Source: source}
			if strings.TrimSpace(transcript) != "" {
				if input.Transcript, err = config.ExpandPath(strings.TrimSpace(transcript)); err != nil {
					return fmt.Errorf("resolve transcript path: %w", err)
				}
			}

			summary, err := runInputs(cmd, ctx, &opts, []workflow.Input{input})
			if err != nil {
				return err
			}
			job := summary.Jobs[0]
			out := cmd.OutOrStdout()
			if !job.Succeeded() {
				return fmt.Errorf("align %s: %w", filepath.Base(source), job.Err)
			}
			for _, path := range []string{job.Outputs.LRC, job.Outputs.ELRC, job.Outputs.TXT} {
				if path != "" {
					fmt.Fprintf(out, "Wrote %s\n", path)
				}
			}
			fmt.Fprintf(out, "%d words aligned (%s timing, %s transcript)\n", len(job.Words), job.TimingSource, job.TranscriptSource)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&transcript, "transcript", "t", "", "Transcript file to align instead of a sidecar or Gemini transcription")
	return cmd
}

// runInputs wires a manager from the loaded configuration and runs one batch.
func runInputs(cmd *cobra.Command, ctx *commandContext, opts *runOptions, inputs []workflow.Input) (workflow.Summary, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return workflow.Summary{}, err
	}
	if err := opts.apply(cfg); err != nil {
		return workflow.Summary{}, err
	}
	outputDir, err := opts.outputDir()
	if err != nil {
		return workflow.Summary{}, err
	}
	checkDir := cfg.Paths.OutputDir
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return workflow.Summary{}, fmt.Errorf("create output dir: %w", err)
		}
		checkDir = outputDir
	}
	if err := preflight.CheckRunDirectories(checkDir, cfg.Paths.TempDir); err != nil {
		return workflow.Summary{}, err
	}

	runID := uuid.NewString()
	logger, err := ctx.newLogger(cmd, runID)
	if err != nil {
		return workflow.Summary{}, err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return workflow.Summary{}, fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	manager, err := workflow.NewManagerFromConfig(cfg, logger, store)
	if err != nil {
		return workflow.Summary{}, err
	}
	if outputDir != "" {
		manager.SetOutputDir(outputDir)
	}
	return manager.RunBatch(services.WithRunID(cmd.Context(), runID), inputs)
}

func printSummary(out io.Writer, summary workflow.Summary) {
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(summary.Jobs))
	for _, job := range summary.Jobs {
		if job == nil {
			continue
		}
		kind := statusOK
		detail := outputNames(job.Outputs)
		if !job.Succeeded() {
			kind = statusError
			detail = services.Kind(job.Err)
			if job.Err != nil {
				detail += ": " + job.Err.Error()
			}
		}
		rows = append(rows, []string{
			filepath.Base(job.Source),
			statusCell(kind, colorize),
			job.TranscriptSource,
			job.TimingSource,
			strconv.Itoa(len(job.Words)),
			detail,
		})
	}
	footer := []string{
		fmt.Sprintf("%d attempted", summary.Attempted),
		fmt.Sprintf("%d ok", summary.Succeeded),
		"", "",
		"",
		fmt.Sprintf("%d failed in %s", summary.Failed, summary.Elapsed.Round(10*time.Millisecond)),
	}
	fmt.Fprintln(out, renderTableWithFooter(
		[]string{"File", "Status", "Transcript", "Timing", "Words", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		footer,
	))
}

func outputNames(outputs workflow.Outputs) string {
	var names []string
	for _, path := range []string{outputs.LRC, outputs.ELRC, outputs.TXT} {
		if path != "" {
			names = append(names, filepath.Base(path))
		}
	}
	return strings.Join(names, ", ")
}
