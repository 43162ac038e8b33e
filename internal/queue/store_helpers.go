package queue

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

const jobColumns = "id, run_id, source_path, status, error_kind, error_message, transcript_source, timing_source, lrc_path, elrc_path, txt_path, word_count, created_at, updated_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job              Job
		status           string
		errorKind        sql.NullString
		errorMessage     sql.NullString
		transcriptSource sql.NullString
		timingSource     sql.NullString
		lrcPath          sql.NullString
		elrcPath         sql.NullString
		txtPath          sql.NullString
		createdRaw       string
		updatedRaw       string
	)
	if err := scanner.Scan(
		&job.ID,
		&job.RunID,
		&job.SourcePath,
		&status,
		&errorKind,
		&errorMessage,
		&transcriptSource,
		&timingSource,
		&lrcPath,
		&elrcPath,
		&txtPath,
		&job.WordCount,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.ErrorKind = errorKind.String
	job.ErrorMessage = errorMessage.String
	job.TranscriptSource = transcriptSource.String
	job.TimingSource = timingSource.String
	job.LRCPath = lrcPath.String
	job.ELRCPath = elrcPath.String
	job.TXTPath = txtPath.String
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	return &job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
