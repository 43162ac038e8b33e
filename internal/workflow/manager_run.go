package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"autolrc/internal/logging"
	"autolrc/internal/services"
	"autolrc/internal/staging"
)

const (
	lockFileName      = ".autolrc.lock"
	staleRunAge       = 24 * time.Hour
	progressBucketPct = 10
)

// RunBatch processes inputs with at most workflow.max_concurrency jobs in
// flight. Job failures are reported in the Summary; the returned error covers
// only problems that prevent the run from starting.
func (m *Manager) RunBatch(ctx context.Context, inputs []Input) (Summary, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	summary := Summary{RunID: runID}
	if len(inputs) == 0 {
		return summary, nil
	}
	logger := logging.WithContext(ctx, m.logger)
	started := time.Now()

	if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
		return summary, services.Wrap(services.ErrFilesystem, "", "create output dir", m.outputDir, err)
	}
	lock := flock.New(filepath.Join(m.outputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrFilesystem, "", "lock output dir", m.outputDir, err)
	}
	if !locked {
		return summary, fmt.Errorf("%w: %s", ErrOutputLocked, m.outputDir)
	}
	defer func() { _ = lock.Unlock() }()

	staging.CleanStale(ctx, m.cfg.Paths.TempDir, staleRunAge, m.logger)
	run, err := staging.NewRun(m.cfg.Paths.TempDir, runID)
	if err != nil {
		return summary, services.Wrap(services.ErrFilesystem, "", "create run dir", m.cfg.Paths.TempDir, err)
	}
	defer func() {
		if err := run.Remove(); err != nil {
			logging.WarnWithContext(logger, "failed to remove run directory", "run_cleanup_failed",
				logging.String("path", run.Root),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed until the next run sweeps it"),
			)
		}
	}()

	limit := max(1, m.cfg.Workflow.MaxConcurrency)
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("files", len(inputs)),
		logging.Int("max_concurrency", limit),
		logging.String("output_dir", m.outputDir),
	)

	jobs := make([]*Job, len(inputs))
	sampler := logging.NewProgressSampler(progressBucketPct)
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(limit)
	for i, input := range inputs {
		g.Go(func() error {
			jobs[i] = m.processJob(ctx, run, input)
			if pct, ok := sampler.Observe(int(done.Add(1)), len(inputs)); ok {
				logger.Info("batch progress",
					logging.String(logging.FieldEventType, "batch_progress"),
					logging.Float64(logging.FieldProgressPercent, pct),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Jobs = jobs
	summary.Attempted = len(jobs)
	for _, job := range jobs {
		if job.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.Elapsed = time.Since(started)

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("attempted", summary.Attempted),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Duration("stage_duration", summary.Elapsed),
	}
	if summary.Failed > 0 {
		logging.WarnWithContext(logger, "batch finished with failures", "batch_complete",
			append(attrs,
				logging.String(logging.FieldErrorHint, "run autolrc history --run "+runID),
				logging.String(logging.FieldImpact, "failed files have no lyric output"),
			)...,
		)
	} else {
		logger.Info("batch finished", logging.Args(attrs...)...)
	}
	return summary, nil
}

// Process runs a single input as a one-job batch.
func (m *Manager) Process(ctx context.Context, input Input) (*Job, error) {
	summary, err := m.RunBatch(ctx, []Input{input})
	if err != nil {
		return nil, err
	}
	return summary.Jobs[0], nil
}
