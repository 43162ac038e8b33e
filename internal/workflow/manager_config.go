package workflow

import (
	"context"
	"log/slog"

	"autolrc/internal/acoustic"
	"autolrc/internal/config"
	"autolrc/internal/media/audio"
	"autolrc/internal/media/ffprobe"
	"autolrc/internal/services"
	"autolrc/internal/services/gemini"
	"autolrc/internal/vocals"
)

// NewManagerFromConfig wires the production collaborators described by cfg.
// ledger may be nil to skip job recording.
func NewManagerFromConfig(cfg *config.Config, logger *slog.Logger, ledger Ledger) (*Manager, error) {
	runner := services.RunCommand
	opts := Options{
		Transcriber: newTranscriber(cfg.Transcription),
		Emitter: acoustic.New(acoustic.Config{
			Command:    cfg.Alignment.AcousticCommand,
			Args:       cfg.Alignment.AcousticArgs,
			SampleRate: cfg.Alignment.SampleRate,
		}, runner),
		Converter: audio.Converter{
			FFmpeg:     cfg.FFmpegBinary(),
			SampleRate: cfg.Alignment.SampleRate,
			Runner:     runner,
		},
		Probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, runner, cfg.FFprobeBinary(), path)
		},
		Ledger: ledger,
	}
	if cfg.VocalIsolation.Enabled {
		opts.Isolator = vocals.New(vocals.Config{
			Python:  cfg.VocalIsolation.Python,
			Model:   cfg.VocalIsolation.Model,
			Timeout: cfg.VocalIsolation.Timeout(),
		}, runner)
	}
	return NewManager(cfg, logger, opts)
}

func newTranscriber(tc config.Transcription) *gemini.Client {
	return gemini.NewClient(
		gemini.Config{
			APIKey:            tc.APIKey,
			BaseURL:           tc.BaseURL,
			Model:             tc.Model,
			Language:          tc.Language,
			Temperature:       tc.Temperature,
			TopP:              tc.TopP,
			TopK:              tc.TopK,
			CandidateCount:    tc.CandidateCount,
			TimeoutSeconds:    tc.TimeoutSeconds,
			RequestsPerMinute: tc.RequestsPerMinute,
		},
		gemini.WithRetryMaxAttempts(tc.MaxRetries),
		gemini.WithRetryBackoff(tc.RetryDelay(), tc.RetryMaxDelay(), tc.BackoffMultiplier),
	)
}
