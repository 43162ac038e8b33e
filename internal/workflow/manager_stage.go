package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"autolrc/internal/align"
	"autolrc/internal/fileutil"
	"autolrc/internal/language"
	"autolrc/internal/logging"
	"autolrc/internal/lyrics"
	"autolrc/internal/media/audio"
	"autolrc/internal/queue"
	"autolrc/internal/services"
	"autolrc/internal/services/gemini"
	"autolrc/internal/staging"
	"autolrc/internal/textutil"
)

const (
	wavFileName     = "audio.wav"
	outputFileMode  = 0o644
	extLRC          = ".lrc"
	extELRC         = ".elrc"
	extTXT          = ".txt"
	transcriptLimit = 1 << 20
)

type pipelineStage struct {
	status queue.Status
	run    func(context.Context, *Job) error
}

func (m *Manager) stages() []pipelineStage {
	stages := make([]pipelineStage, 0, 6)
	if m.isolator != nil {
		stages = append(stages, pipelineStage{queue.StatusIsolating, m.isolate})
	}
	return append(stages,
		pipelineStage{queue.StatusConverting, m.convert},
		pipelineStage{queue.StatusTranscribing, m.transcribe},
		pipelineStage{queue.StatusAligning, m.alignWords},
		pipelineStage{queue.StatusFormatting, m.format},
		pipelineStage{queue.StatusWriting, m.write},
	)
}

// processJob runs input through every stage. It never returns an error: the
// outcome is recorded on the Job and in the ledger.
func (m *Manager) processJob(ctx context.Context, run *staging.Run, input Input) (job *Job) {
	job = newJob(input)
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, m.logger)

	m.recordCreate(ctx, run.ID, job)
	defer m.cleanup(ctx, job)
	defer func() {
		if r := recover(); r != nil {
			stage := string(job.State)
			logger.Debug("job panicked",
				logging.String("stage", stage),
				logging.String("stack", string(debug.Stack())),
			)
			m.failJob(services.WithStage(ctx, stage), job, fmt.Errorf("%s: panic: %v", stage, r))
		}
	}()

	started := time.Now()
	if err := m.prepare(run, job); err != nil {
		m.failJob(ctx, job, err)
		return job
	}
	logger.Debug("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("source", job.Source),
		logging.String("work_dir", job.WorkDir),
	)

	for _, stage := range m.stages() {
		if stage.status == queue.StatusAligning && ctx.Err() == nil {
			// A job that reaches alignment is finished and written even if
			// the run is cancelled meanwhile.
			ctx = context.WithoutCancel(ctx)
		}
		if err := m.runStage(ctx, job, stage); err != nil {
			m.failJob(services.WithStage(ctx, string(stage.status)), job, err)
			return job
		}
	}
	m.completeJob(ctx, job, time.Since(started))
	return job
}

func (m *Manager) prepare(run *staging.Run, job *Job) error {
	info, err := os.Stat(job.Source)
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, string(queue.StatusPending), "open audio", job.Source, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrInvalidInput, string(queue.StatusPending), "open audio", "source is a directory", nil)
	}
	dir, err := run.JobDir(job.ID)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, string(queue.StatusPending), "create job dir", "", err)
	}
	job.WorkDir = dir
	job.track(dir)
	return nil
}

func (m *Manager) runStage(ctx context.Context, job *Job, stage pipelineStage) error {
	name := string(stage.status)
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTransient, name, "run", "job cancelled", err)
	}
	job.State = stage.status
	stageCtx := services.WithStage(ctx, name)
	m.recordStatus(stageCtx, job)

	logger := logging.WithContext(stageCtx, m.logger)
	started := time.Now()
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := stage.run(stageCtx, job); err != nil {
		return err
	}
	logger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", time.Since(started)),
	)
	return nil
}

func (m *Manager) isolate(ctx context.Context, job *Job) error {
	vocalsPath, err := m.isolator.Isolate(ctx, job.Source, job.WorkDir)
	if err != nil {
		// Isolation is best effort; the job carries on with the full mix.
		logging.WarnWithContext(logging.WithContext(ctx, m.logger),
			"vocal isolation failed; using original audio", "vocal_isolation_degraded",
			logging.Error(err),
			logging.ErrorKind(services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check that demucs is installed for vocal_isolation.python"),
			logging.String(logging.FieldImpact, "alignment runs on the full mix"),
		)
		return nil
	}
	job.audioPath = vocalsPath
	job.track(vocalsPath)
	return nil
}

func (m *Manager) convert(ctx context.Context, job *Job) error {
	stage := string(queue.StatusConverting)
	source := job.audioSource()
	stream := -1
	if m.probe != nil {
		probe, err := m.probe(ctx, source)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, stage, "ffprobe", source, err)
		}
		selected, ok := audio.Select(probe.AudioStreams(), m.cfg.Transcription.Language)
		if !ok {
			return services.Wrap(services.ErrInvalidInput, stage, "ffprobe", "no audio stream in "+source, nil)
		}
		stream = selected.Index
		job.Duration = probe.DurationSeconds()
	}

	wav := filepath.Join(job.WorkDir, wavFileName)
	job.track(wav)
	if err := m.converter.ToWAV(ctx, source, stream, wav); err != nil {
		return services.Wrap(services.ErrExternalTool, stage, "ffmpeg", source, err)
	}
	job.wavPath = wav
	return nil
}

func (m *Manager) transcribe(ctx context.Context, job *Job) error {
	stage := string(queue.StatusTranscribing)
	logger := logging.WithContext(ctx, m.logger)

	if path := m.transcriptFor(job); path != "" {
		text, err := readTranscript(path)
		if err != nil {
			return services.Wrap(services.ErrInvalidInput, stage, "read transcript", path, err)
		}
		job.Transcript = text
		job.TranscriptSource = TranscriptSidecar
		job.transcriptFile = path
		logger.Debug("using transcript file",
			logging.String("transcript_source", TranscriptSidecar),
			logging.String("path", path),
		)
	} else {
		if m.transcriber == nil {
			return services.Wrap(services.ErrConfiguration, stage, "transcribe", "no transcriber configured and no transcript file found", nil)
		}
		text, err := m.transcriber.TranscribeFile(ctx, job.wavPath)
		if err != nil {
			return err
		}
		job.Transcript = gemini.CleanTranscript(text)
		job.TranscriptSource = TranscriptGemini
		logger.Debug("transcribed audio",
			logging.String("transcript_source", TranscriptGemini),
			logging.String("transcription_model", m.transcriber.Model()),
		)
	}

	if strings.TrimSpace(job.Transcript) == "" {
		return services.Wrap(services.ErrInvalidInput, stage, "transcribe", "transcript is empty", nil)
	}
	return nil
}

// transcriptFor returns the transcript file for job, or "" when the audio
// must be transcribed.
func (m *Manager) transcriptFor(job *Job) string {
	if job.TranscriptPath != "" {
		return job.TranscriptPath
	}
	if m.cfg.Transcription.UseSidecarTranscripts {
		return SidecarTranscript(job.Source)
	}
	return ""
}

func readTranscript(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > transcriptLimit {
		return "", fmt.Errorf("transcript is larger than %d bytes", transcriptLimit)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimSpace(strings.TrimPrefix(text, "\ufeff")), nil
}

func (m *Manager) alignWords(ctx context.Context, job *Job) error {
	if m.emitter != nil && m.emitter.Available() {
		return m.alignAcoustic(ctx, job)
	}
	return m.alignFallback(ctx, job)
}

func (m *Manager) alignAcoustic(ctx context.Context, job *Job) error {
	stage := string(queue.StatusAligning)
	logger := logging.WithContext(ctx, m.logger)

	result, err := m.emitter.Emit(ctx, job.wavPath, job.WorkDir)
	if err != nil {
		return err
	}
	if result.Matrix == nil || result.Vocabulary == nil {
		return services.Wrap(services.ErrExternalTool, stage, "acoustic model", "model returned no emissions", nil)
	}
	seq, err := language.BuildSequence(m.mapper, job.Transcript, result.Vocabulary)
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, stage, "tokenize", m.mapper.Name(), err)
	}

	// Alignment runs to completion once started.
	words, err := align.Words(result.Matrix, seq, result.Vocabulary.Blank(), result.FrameDuration())
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, stage, "align", "", err)
	}
	if len(words) == 0 {
		return services.Wrap(services.ErrInconclusive, stage, "align", "no word matched the alignment path", nil)
	}
	if dropped := len(seq.Words) - len(words); dropped > 0 {
		logging.WarnWithContext(logger, "words dropped from alignment", "alignment_inconclusive",
			logging.Int("dropped", dropped),
			logging.Int("words", len(words)),
			logging.String(logging.FieldErrorHint, "check the transcript matches the audio"),
			logging.String(logging.FieldImpact, "dropped words are missing from the lyric files"),
		)
	}
	logger.Debug("alignment finished",
		logging.Int("frames", result.Matrix.Frames()),
		logging.Int("tokens", seq.Len()),
		logging.Int("words", len(words)),
		logging.String("mapper", m.mapper.Name()),
	)
	job.Words = words
	job.TimingSource = TimingAligned
	return nil
}

func (m *Manager) alignFallback(ctx context.Context, job *Job) error {
	stage := string(queue.StatusAligning)
	switch m.fallback {
	case lyrics.StrategyEven:
		duration, _, err := m.audioDuration(ctx, job, false)
		if err != nil {
			return err
		}
		job.Words = lyrics.EvenlySpaced(job.Transcript, duration)
	case lyrics.StrategyOnset:
		duration, samples, err := m.audioDuration(ctx, job, true)
		if err != nil {
			return err
		}
		onsets := lyrics.DetectOnsets(samples, m.converter.Rate())
		job.Document = lyrics.OnsetSpaced(job.Transcript, onsets, duration)
		job.Words = job.Document.Words()
	default:
		return services.Wrap(services.ErrConfiguration, stage, "acoustic model",
			"alignment.acoustic_command is not set and alignment.fallback is none", nil)
	}
	if len(job.Words) == 0 {
		return services.Wrap(services.ErrInvalidInput, stage, string(m.fallback), "audio has no duration", nil)
	}
	job.TimingSource = string(m.fallback)
	logging.WithContext(ctx, m.logger).Debug("fallback timing applied",
		logging.String("fallback", job.TimingSource),
		logging.Int("words", len(job.Words)),
	)
	return nil
}

// audioDuration returns the probed duration, decoding the WAV when probing
// gave nothing or the samples themselves are needed.
func (m *Manager) audioDuration(ctx context.Context, job *Job, needSamples bool) (float64, []float64, error) {
	if job.Duration > 0 && !needSamples {
		return job.Duration, nil, nil
	}
	samples, err := m.converter.DecodePCM(ctx, job.wavPath)
	if err != nil {
		return 0, nil, services.Wrap(services.ErrExternalTool, string(queue.StatusAligning), "decode pcm", job.wavPath, err)
	}
	duration := job.Duration
	if duration <= 0 && m.converter.Rate() > 0 {
		duration = float64(len(samples)) / float64(m.converter.Rate())
	}
	return duration, samples, nil
}

func (m *Manager) format(_ context.Context, job *Job) error {
	out := m.cfg.Output
	// Onset timing already chose line breaks; keep them.
	if job.TimingSource == string(lyrics.StrategyOnset) && len(job.Document.Lines) > 0 {
		job.rendered.lrc = job.Document.LRC()
		job.rendered.elrc = job.Document.ELRC()
	} else {
		job.rendered.lrc = lyrics.RenderLRC(job.Words, out.LRCWordsPerLine)
		job.rendered.elrc = lyrics.RenderELRC(job.Words, out.ELRCWordsPerLine)
	}
	if out.CreateTXT {
		job.rendered.txt = lyrics.StripTimestamps(job.rendered.lrc)
	}
	if job.rendered.lrc == "" {
		return services.Wrap(services.ErrInconclusive, string(queue.StatusFormatting), "render", "no timed words", nil)
	}
	return nil
}

func (m *Manager) write(_ context.Context, job *Job) error {
	stage := string(queue.StatusWriting)
	base := outputBaseName(job.Source)
	out := m.cfg.Output

	targets := []struct {
		enabled bool
		ext     string
		payload string
		dest    *string
	}{
		{out.CreateLRC, extLRC, job.rendered.lrc, &job.Outputs.LRC},
		{out.CreateELRC, extELRC, job.rendered.elrc, &job.Outputs.ELRC},
		{out.CreateTXT, extTXT, job.rendered.txt, &job.Outputs.TXT},
	}
	for _, target := range targets {
		if target.enabled && job.transcriptFile != "" && samePath(filepath.Join(m.outputDir, base+target.ext), job.transcriptFile) {
			return services.Wrap(services.ErrInvalidInput, stage, "write "+strings.TrimPrefix(target.ext, "."),
				"output would overwrite the transcript "+job.transcriptFile, nil)
		}
	}
	for _, target := range targets {
		if !target.enabled {
			continue
		}
		path := filepath.Join(m.outputDir, base+target.ext)
		if err := fileutil.WriteFileAtomic(path, []byte(target.payload), outputFileMode); err != nil {
			return services.Wrap(services.ErrFilesystem, stage, "write "+strings.TrimPrefix(target.ext, "."), path, err)
		}
		*target.dest = path
	}
	return nil
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ai, bi)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func outputBaseName(source string) string {
	name := filepath.Base(source)
	base := textutil.SanitizeFileName(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		return "lyrics"
	}
	return base
}

func (m *Manager) completeJob(ctx context.Context, job *Job, elapsed time.Duration) {
	job.State = queue.StatusCompleted
	m.recordComplete(ctx, job)
	logging.WithContext(ctx, m.logger).Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.String("source", filepath.Base(job.Source)),
		logging.String("transcript_source", job.TranscriptSource),
		logging.String("fallback", fallbackLabel(job.TimingSource)),
		logging.Int("words", len(job.Words)),
		logging.String("lrc_path", job.Outputs.LRC),
		logging.String("elrc_path", job.Outputs.ELRC),
		logging.String("txt_path", job.Outputs.TXT),
		logging.Duration("stage_duration", elapsed),
	)
}

func fallbackLabel(timing string) string {
	if timing == TimingAligned {
		return ""
	}
	return timing
}

func (m *Manager) failJob(ctx context.Context, job *Job, err error) {
	job.State = queue.StatusFailed
	job.Err = err
	kind := services.Kind(err)
	if errors.Is(err, context.Canceled) {
		kind = "cancelled"
	}
	m.recordFailure(ctx, job, kind, err.Error())
	logging.ErrorWithContext(logging.WithContext(ctx, m.logger), "job failed", "job_failed",
		logging.String("source", filepath.Base(job.Source)),
		logging.ErrorKind(kind),
		logging.String("error_message", err.Error()),
		logging.String(logging.FieldErrorHint, failureHint(err)),
	)
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return "check the audio file and its transcript"
	case errors.Is(err, services.ErrConfiguration):
		return "run autolrc doctor and review the config"
	case errors.Is(err, services.ErrTransient):
		return "retry the file later"
	case errors.Is(err, services.ErrExternalTool):
		return "check the external tool output in the debug log"
	case errors.Is(err, services.ErrFilesystem):
		return "check paths.output_dir permissions and free space"
	default:
		return "check logs for details"
	}
}

// cleanup removes every temporary path the job recorded, newest first.
func (m *Manager) cleanup(ctx context.Context, job *Job) {
	logger := logging.WithContext(ctx, m.logger)
	for i := len(job.tempPaths) - 1; i >= 0; i-- {
		path := job.tempPaths[i]
		if err := os.RemoveAll(path); err != nil {
			logging.WarnWithContext(logger, "failed to remove temporary file", "job_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}
	job.tempPaths = nil
}
