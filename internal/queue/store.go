package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a job id has no ledger row.
var ErrNotFound = errors.New("job not found")

// Create inserts a pending job for source under runID.
func (s *Store) Create(ctx context.Context, id, runID, sourcePath string) (*Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("job id is required")
	}
	if strings.TrimSpace(sourcePath) == "" {
		return nil, errors.New("source path is required")
	}
	now := time.Now().UTC()
	ts := formatTime(now)
	if _, err := s.exec(ctx,
		`INSERT INTO jobs (id, run_id, source_path, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, runID, sourcePath, StatusPending, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return &Job{
		ID:         id,
		RunID:      runID,
		SourcePath: sourcePath,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateStatus moves a job to status without touching its results.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	if _, ok := ParseStatus(string(status)); !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	res, err := s.exec(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return requireRow(res, id)
}

// Complete records the outputs of a finished job and marks it completed.
func (s *Store) Complete(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.Status = StatusCompleted
	job.ErrorKind = ""
	job.ErrorMessage = ""
	job.UpdatedAt = time.Now().UTC()
	res, err := s.exec(ctx,
		`UPDATE jobs SET status = ?, error_kind = NULL, error_message = NULL,
			transcript_source = ?, timing_source = ?, lrc_path = ?, elrc_path = ?, txt_path = ?,
			word_count = ?, updated_at = ?
		WHERE id = ?`,
		job.Status,
		nullableString(job.TranscriptSource),
		nullableString(job.TimingSource),
		nullableString(job.LRCPath),
		nullableString(job.ELRCPath),
		nullableString(job.TXTPath),
		job.WordCount,
		formatTime(job.UpdatedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return requireRow(res, job.ID)
}

// Fail marks a job failed with the given error kind and message.
func (s *Store) Fail(ctx context.Context, id, kind, message string) error {
	res, err := s.exec(ctx,
		`UPDATE jobs SET status = ?, error_kind = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, nullableString(kind), nullableString(message), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return requireRow(res, id)
}

// Get fetches a job by id.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns jobs matching filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Job, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, string(status))
		}
	}
	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Runs summarizes the most recent batch runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT run_id, MIN(created_at),
			COUNT(1),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END)
		FROM jobs GROUP BY run_id ORDER BY MIN(created_at) DESC`
	args := []any{StatusCompleted, StatusFailed}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			summary RunSummary
			started string
		)
		if err := rows.Scan(&summary.RunID, &started, &summary.Total, &summary.Completed, &summary.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if ts, err := parseTimeString(started); err == nil {
			summary.StartedAt = ts
		}
		runs = append(runs, summary)
	}
	return runs, rows.Err()
}

// ResetInterrupted fails jobs left in a processing or pending status by a
// run that exited early. It returns the number of rows updated.
func (s *Store) ResetInterrupted(ctx context.Context) (int64, error) {
	statuses := append([]Status{StatusPending}, processingStatuses...)
	args := []any{StatusFailed, InterruptedReason, formatTime(time.Now())}
	for _, status := range statuses {
		args = append(args, string(status))
	}
	res, err := s.exec(ctx,
		`UPDATE jobs SET status = ?, error_kind = 'interrupted', error_message = ?, updated_at = ?
		WHERE status IN (`+makePlaceholders(len(statuses))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("reset interrupted jobs: %w", err)
	}
	return res.RowsAffected()
}

// Prune removes terminal jobs last updated before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.exec(ctx,
		`DELETE FROM jobs WHERE status IN (?, ?) AND updated_at < ?`,
		StatusCompleted, StatusFailed, formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
