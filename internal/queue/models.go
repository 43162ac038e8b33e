package queue

import "time"

// Status represents the lifecycle of a processing job. The processing
// statuses double as the pipeline stage names.
type Status string

const (
	StatusPending      Status = "pending"
	StatusIsolating    Status = "isolating"
	StatusConverting   Status = "converting"
	StatusTranscribing Status = "transcribing"
	StatusAligning     Status = "aligning"
	StatusFormatting   Status = "formatting"
	StatusWriting      Status = "writing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// InterruptedReason is the error message recorded for jobs that were still
// processing when a previous run died.
const InterruptedReason = "interrupted before completion"

var allStatuses = []Status{
	StatusPending,
	StatusIsolating,
	StatusConverting,
	StatusTranscribing,
	StatusAligning,
	StatusFormatting,
	StatusWriting,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = []Status{
	StatusIsolating,
	StatusConverting,
	StatusTranscribing,
	StatusAligning,
	StatusFormatting,
	StatusWriting,
}

// ParseStatus validates a status string.
func ParseStatus(value string) (Status, bool) {
	status := Status(value)
	_, ok := statusSet[status]
	return status, ok
}

// IsTerminal reports whether the status ends a job.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsProcessing reports whether the job is inside a pipeline stage.
func (s Status) IsProcessing() bool {
	for _, p := range processingStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// Job is one ledger row.
type Job struct {
	ID               string
	RunID            string
	SourcePath       string
	Status           Status
	ErrorKind        string
	ErrorMessage     string
	TranscriptSource string
	TimingSource     string
	LRCPath          string
	ELRCPath         string
	TXTPath          string
	WordCount        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	RunID    string
	Statuses []Status
	Limit    int
}

// RunSummary aggregates the jobs of one batch run.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Total     int
	Completed int
	Failed    int
}
