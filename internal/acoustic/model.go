package acoustic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"autolrc/internal/emission"
	"autolrc/internal/services"
)

const (
	stageName      = "aligning"
	outputFileName = "emissions.json"
)

// Config captures how to invoke the acoustic model.
type Config struct {
	// Command is split on whitespace; the first field is the executable.
	Command string
	Args    []string
	// SampleRate is assumed when the output omits sample_rate.
	SampleRate int
}

// Result holds the parsed model output.
type Result struct {
	Matrix     *emission.Matrix
	Vocabulary *emission.Vocabulary
	NumSamples int
	SampleRate int
	// frameDuration overrides the derived value when the model reports it.
	frameDuration float64
}

// FrameDuration returns the length of one emission frame in seconds.
func (r Result) FrameDuration() float64 {
	if r.frameDuration > 0 {
		return r.frameDuration
	}
	return r.Matrix.FrameDuration(r.NumSamples, r.SampleRate)
}

// Model invokes the configured command.
type Model struct {
	cfg    Config
	runner services.CommandRunner
}

// New constructs a Model. A nil runner uses services.RunCommand.
func New(cfg Config, runner services.CommandRunner) *Model {
	return &Model{cfg: cfg, runner: services.RunnerOrDefault(runner)}
}

// Available reports whether a command is configured.
func (m *Model) Available() bool {
	return m != nil && len(strings.Fields(m.cfg.Command)) > 0
}

// Binary returns the executable the model runs, for dependency checks.
func (m *Model) Binary() string {
	if !m.Available() {
		return ""
	}
	return strings.Fields(m.cfg.Command)[0]
}

// Emit runs the model on wavPath, writing its output into workDir.
func (m *Model) Emit(ctx context.Context, wavPath, workDir string) (Result, error) {
	if !m.Available() {
		return Result{}, services.Wrap(services.ErrConfiguration, stageName, "acoustic model", "alignment.acoustic_command is not set", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrFilesystem, stageName, "acoustic model", "create work dir", err)
	}
	outPath := filepath.Join(workDir, outputFileName)

	fields := strings.Fields(m.cfg.Command)
	args := make([]string, 0, len(fields)+len(m.cfg.Args)+1)
	args = append(args, fields[1:]...)
	args = append(args, m.cfg.Args...)
	args = append(args, wavPath, outPath)

	if _, err := m.runner(ctx, fields[0], args...); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "acoustic model", fields[0], err)
	}
	result, err := Load(outPath, m.cfg.SampleRate)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "acoustic model", "read output", err)
	}
	return result, nil
}

type payload struct {
	Labels        []string    `json:"labels"`
	Emissions     [][]float64 `json:"emissions"`
	NumSamples    int         `json:"num_samples"`
	SampleRate    int         `json:"sample_rate"`
	FrameDuration float64     `json:"frame_duration"`
	Domain        string      `json:"domain"`
	Blank         string      `json:"blank"`
	WordSeparator string      `json:"word_separator"`
}

// Load reads a model output file.
func Load(path string, defaultRate int) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Parse(data, defaultRate)
}

// Parse decodes model output. defaultRate is used when the document omits
// sample_rate.
func Parse(data []byte, defaultRate int) (Result, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Result{}, fmt.Errorf("parse emissions json: %w", err)
	}
	vocab, err := emission.NewVocabulary(p.Labels, p.Blank, p.WordSeparator)
	if err != nil {
		return Result{}, err
	}
	matrix, err := emission.New(p.Emissions, emission.Domain(strings.ToLower(strings.TrimSpace(p.Domain))))
	if err != nil {
		return Result{}, err
	}
	if matrix.VocabSize() != vocab.Size() {
		return Result{}, fmt.Errorf("emissions have %d columns but %d labels", matrix.VocabSize(), vocab.Size())
	}
	rate := p.SampleRate
	if rate <= 0 {
		rate = defaultRate
	}
	result := Result{
		Matrix:        matrix,
		Vocabulary:    vocab,
		NumSamples:    p.NumSamples,
		SampleRate:    rate,
		frameDuration: p.FrameDuration,
	}
	if result.FrameDuration() <= 0 {
		return Result{}, fmt.Errorf("cannot derive frame duration: need num_samples and sample_rate, or frame_duration")
	}
	return result, nil
}
