package workflow

import (
	"errors"
	"log/slog"
	"strings"

	"autolrc/internal/config"
	"autolrc/internal/language"
	"autolrc/internal/logging"
	"autolrc/internal/lyrics"
	"autolrc/internal/services"
)

// Options supplies the Manager's collaborators. Converter is required; the
// rest may be nil. A nil Mapper is derived from the configuration.
type Options struct {
	Transcriber Transcriber
	Emitter     Emitter
	Isolator    Isolator
	Converter   Converter
	Probe       ProbeFunc
	Ledger      Ledger
	Mapper      language.Mapper
}

// Manager runs jobs through the pipeline.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	transcriber Transcriber
	emitter     Emitter
	isolator    Isolator
	converter   Converter
	probe       ProbeFunc
	ledger      Ledger
	mapper      language.Mapper

	fallback  lyrics.Strategy
	outputDir string
}

// NewManager constructs a Manager for cfg.
func NewManager(cfg *config.Config, logger *slog.Logger, opts Options) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("workflow: config is required")
	}
	if opts.Converter == nil {
		return nil, errors.New("workflow: converter is required")
	}
	fallback, err := lyrics.ParseStrategy(cfg.Alignment.Fallback)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "alignment.fallback", "", err)
	}
	mapper := opts.Mapper
	if mapper == nil {
		mapper, err = mapperFromConfig(cfg)
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "workflow"),
		transcriber: opts.Transcriber,
		emitter:     opts.Emitter,
		isolator:    opts.Isolator,
		converter:   opts.Converter,
		probe:       opts.Probe,
		ledger:      opts.Ledger,
		mapper:      mapper,
		fallback:    fallback,
		outputDir:   strings.TrimSpace(cfg.Paths.OutputDir),
	}, nil
}

// SetOutputDir overrides paths.output_dir for subsequent runs.
func (m *Manager) SetOutputDir(dir string) {
	if dir = strings.TrimSpace(dir); dir != "" {
		m.outputDir = dir
	}
}

// OutputDir returns where lyric files are written.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// Mapper returns the token mapper used for alignment.
func (m *Manager) Mapper() language.Mapper {
	return m.mapper
}

func mapperFromConfig(cfg *config.Config) (language.Mapper, error) {
	if path := strings.TrimSpace(cfg.Alignment.TransliterationTable); path != "" {
		table, err := language.LoadTable(path)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "", "load transliteration table", path, err)
		}
		return table, nil
	}
	return language.ForLanguage(cfg.AlignmentLanguage()), nil
}
