package workflow

import (
	"context"
	"errors"
	"time"

	"autolrc/internal/acoustic"
	"autolrc/internal/lyrics"
	"autolrc/internal/media/ffprobe"
	"autolrc/internal/queue"
)

// ErrOutputLocked is returned when another run holds the output directory.
var ErrOutputLocked = errors.New("output directory is locked by another run")

// Transcriber turns an audio file into plain transcript text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
	Model() string
}

// Emitter runs the acoustic model over a WAV file.
type Emitter interface {
	Available() bool
	Emit(ctx context.Context, wavPath, workDir string) (acoustic.Result, error)
}

// Isolator extracts the vocal stem of source into workDir.
type Isolator interface {
	Isolate(ctx context.Context, source, workDir string) (string, error)
}

// Converter produces the mono WAV the rest of the pipeline reads.
type Converter interface {
	ToWAV(ctx context.Context, source string, streamIndex int, dest string) error
	DecodePCM(ctx context.Context, source string) ([]float64, error)
	Rate() int
}

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Ledger records job progress. *queue.Store satisfies it.
type Ledger interface {
	Create(ctx context.Context, id, runID, sourcePath string) (*queue.Job, error)
	UpdateStatus(ctx context.Context, id string, status queue.Status) error
	Complete(ctx context.Context, job *queue.Job) error
	Fail(ctx context.Context, id, kind, message string) error
}

// Input is one file handed to a run. Transcript, when set, names a text file
// that replaces both sidecar lookup and remote transcription.
type Input struct {
	Source     string
	Transcript string
}

// Transcript and timing sources recorded on completed jobs.
const (
	TranscriptSidecar = "sidecar"
	TranscriptGemini  = "gemini"
	TimingAligned     = "aligned"
)

// Outputs lists the lyric files a job wrote.
type Outputs struct {
	LRC  string
	ELRC string
	TXT  string
}

// Job is one file moving through the pipeline.
type Job struct {
	ID             string
	Source         string
	TranscriptPath string
	WorkDir        string
	State          queue.Status
	Err            error

	Transcript       string
	TranscriptSource string
	TimingSource     string
	Duration         float64
	Words            []lyrics.Word
	Document         lyrics.Document
	Outputs          Outputs

	audioPath string
	wavPath   string
	// transcriptFile is the file the transcript was read from, if any.
	transcriptFile string
	rendered  rendered
	tempPaths []string
}

type rendered struct {
	lrc  string
	elrc string
	txt  string
}

// track records a temporary artifact for removal when the job ends.
func (j *Job) track(path string) {
	if path != "" {
		j.tempPaths = append(j.tempPaths, path)
	}
}

// audioSource is the file conversion reads: the isolated vocals when
// isolation succeeded, otherwise the original.
func (j *Job) audioSource() string {
	if j.audioPath != "" {
		return j.audioPath
	}
	return j.Source
}

// Succeeded reports whether the job completed.
func (j *Job) Succeeded() bool {
	return j != nil && j.State == queue.StatusCompleted
}

// Summary reports a finished batch.
type Summary struct {
	RunID     string
	Attempted int
	Succeeded int
	Failed    int
	Jobs      []*Job
	Elapsed   time.Duration
}
