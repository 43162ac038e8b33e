package config

const (
	defaultConfigPath        = "~/.config/autolrc/config.toml"
	defaultInputDir          = "~/Music/autolrc/input"
	defaultOutputDir         = "~/Music/autolrc/output"
	defaultLogDir            = "~/.local/share/autolrc/logs"
	defaultStateDir          = "~/.local/share/autolrc"
	ledgerFileName           = "ledger.db"
	defaultLogRetentionDays  = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLanguage          = "English"
	defaultGeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel       = "gemini-2.0-flash"
	defaultTemperature       = 0.2
	defaultTopP              = 0.8
	defaultTopK              = 40
	defaultCandidateCount    = 1
	defaultMaxRetries        = 3
	defaultRetryDelay        = 5
	defaultBackoffMultiplier = 2
	defaultRetryMaxDelay     = 60
	defaultTimeoutSeconds    = 120
	defaultSampleRate        = 16000
	defaultFallback          = "none"
	defaultPython            = "python3"
	defaultDemucsModel       = "htdemucs"
	defaultDemucsTimeout     = 1800
	defaultLRCWordsPerLine   = 4
	defaultELRCWordsPerLine  = 3
	defaultMaxConcurrency    = 2
)

var defaultExtensions = []string{".mp3", ".wav", ".flac", ".m4a", ".ogg", ".opus", ".aac"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			TempDir:   defaultTempDir(),
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Transcription: Transcription{
			BaseURL:               defaultGeminiBaseURL,
			Model:                 defaultGeminiModel,
			Language:              defaultLanguage,
			Temperature:           defaultTemperature,
			TopP:                  defaultTopP,
			TopK:                  defaultTopK,
			CandidateCount:        defaultCandidateCount,
			MaxRetries:            defaultMaxRetries,
			RetryDelaySeconds:     defaultRetryDelay,
			BackoffMultiplier:     defaultBackoffMultiplier,
			RetryMaxDelaySeconds:  defaultRetryMaxDelay,
			TimeoutSeconds:        defaultTimeoutSeconds,
			UseSidecarTranscripts: true,
		},
		Alignment: Alignment{
			SampleRate: defaultSampleRate,
			Fallback:   defaultFallback,
		},
		VocalIsolation: VocalIsolation{
			Enabled:        true,
			Python:         defaultPython,
			Model:          defaultDemucsModel,
			TimeoutSeconds: defaultDemucsTimeout,
		},
		Output: Output{
			CreateLRC:        true,
			CreateELRC:       true,
			CreateTXT:        true,
			LRCWordsPerLine:  defaultLRCWordsPerLine,
			ELRCWordsPerLine: defaultELRCWordsPerLine,
		},
		Workflow: Workflow{
			MaxConcurrency: defaultMaxConcurrency,
			Extensions:     append([]string(nil), defaultExtensions...),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
