package workflow

import (
	"context"

	"github.com/google/uuid"

	"autolrc/internal/logging"
	"autolrc/internal/queue"
)

func newJob(input Input) *Job {
	return &Job{
		ID:             uuid.NewString(),
		Source:         input.Source,
		TranscriptPath: input.Transcript,
		State:          queue.StatusPending,
	}
}

// Ledger writes are detached from cancellation so an interrupted job still
// records its outcome.

func (m *Manager) recordCreate(ctx context.Context, runID string, job *Job) {
	if m.ledger == nil {
		return
	}
	if _, err := m.ledger.Create(context.WithoutCancel(ctx), job.ID, runID, job.Source); err != nil {
		m.ledgerWarning(ctx, "create", err)
	}
}

func (m *Manager) recordStatus(ctx context.Context, job *Job) {
	if m.ledger == nil {
		return
	}
	if err := m.ledger.UpdateStatus(context.WithoutCancel(ctx), job.ID, job.State); err != nil {
		m.ledgerWarning(ctx, "update status", err)
	}
}

func (m *Manager) recordComplete(ctx context.Context, job *Job) {
	if m.ledger == nil {
		return
	}
	entry := &queue.Job{
		ID:               job.ID,
		TranscriptSource: job.TranscriptSource,
		TimingSource:     job.TimingSource,
		LRCPath:          job.Outputs.LRC,
		ELRCPath:         job.Outputs.ELRC,
		TXTPath:          job.Outputs.TXT,
		WordCount:        len(job.Words),
	}
	if err := m.ledger.Complete(context.WithoutCancel(ctx), entry); err != nil {
		m.ledgerWarning(ctx, "complete", err)
	}
}

func (m *Manager) recordFailure(ctx context.Context, job *Job, kind, message string) {
	if m.ledger == nil {
		return
	}
	if err := m.ledger.Fail(context.WithoutCancel(ctx), job.ID, kind, message); err != nil {
		m.ledgerWarning(ctx, "fail", err)
	}
}

func (m *Manager) ledgerWarning(ctx context.Context, op string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, m.logger), "ledger write failed", "ledger_write_failed",
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "run autolrc doctor to check the ledger"),
		logging.String(logging.FieldImpact, "history is incomplete for this job"),
	)
}
