package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	TempDir   string `toml:"temp_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// Transcription contains configuration for the Gemini transcription client.
type Transcription struct {
	APIKey                string  `toml:"api_key"`
	BaseURL               string  `toml:"base_url"`
	Model                 string  `toml:"model"`
	Language              string  `toml:"language"`
	Temperature           float64 `toml:"temperature"`
	TopP                  float64 `toml:"top_p"`
	TopK                  int     `toml:"top_k"`
	CandidateCount        int     `toml:"candidate_count"`
	MaxRetries            int     `toml:"max_retries"`
	RetryDelaySeconds     float64 `toml:"retry_delay_seconds"`
	BackoffMultiplier     float64 `toml:"backoff_multiplier"`
	RetryMaxDelaySeconds  float64 `toml:"retry_max_delay_seconds"`
	TimeoutSeconds        int     `toml:"timeout_seconds"`
	RequestsPerMinute     int     `toml:"requests_per_minute"`
	UseSidecarTranscripts bool    `toml:"use_sidecar_transcripts"`
}

// Alignment contains configuration for the acoustic model and token mapping.
type Alignment struct {
	// Language selects the token mapper; empty means transcription.language.
	Language        string   `toml:"language"`
	AcousticCommand string   `toml:"acoustic_command"`
	AcousticArgs    []string `toml:"acoustic_args"`
	SampleRate      int      `toml:"sample_rate"`
	// TransliterationTable optionally points at a YAML rune table that
	// replaces the built-in mapper for Language.
	TransliterationTable string `toml:"transliteration_table"`
	// Fallback is none, even or onset; used only when no acoustic command is configured.
	Fallback string `toml:"fallback"`
}

// VocalIsolation contains configuration for the Demucs pre-pass.
type VocalIsolation struct {
	Enabled        bool   `toml:"enabled"`
	Python         string `toml:"python"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Output controls which lyric artifacts are written.
type Output struct {
	CreateLRC        bool `toml:"create_lrc"`
	CreateELRC       bool `toml:"create_elrc"`
	CreateTXT        bool `toml:"create_txt"`
	LRCWordsPerLine  int  `toml:"lrc_words_per_line"`
	ELRCWordsPerLine int  `toml:"elrc_words_per_line"`
}

// Workflow contains batch scheduling configuration.
type Workflow struct {
	MaxConcurrency int      `toml:"max_concurrency"`
	Extensions     []string `toml:"extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for autolrc.
//
// Configuration sections by subsystem:
//   - Paths: input, output, temp, log and ledger directories
//   - Transcription: Gemini model, sampling and retry settings
//   - Alignment: acoustic model command, language mapper, fallback timing
//   - VocalIsolation: optional Demucs pre-pass
//   - Output: which lyric files to write and line grouping
//   - Workflow: batch concurrency and accepted audio extensions
//   - Logging: log format, level, and retention
type Config struct {
	Paths          Paths          `toml:"paths"`
	Transcription  Transcription  `toml:"transcription"`
	Alignment      Alignment      `toml:"alignment"`
	VocalIsolation VocalIsolation `toml:"vocal_isolation"`
	Output         Output         `toml:"output"`
	Workflow       Workflow       `toml:"workflow"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autolrc.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a batch run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.TempDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the SQLite job ledger location inside state_dir.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, ledgerFileName)
}

// FFmpegBinary returns the ffmpeg executable name used for conversion.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// AlignmentLanguage returns the language driving token mapping.
func (c *Config) AlignmentLanguage() string {
	if lang := strings.TrimSpace(c.Alignment.Language); lang != "" {
		return lang
	}
	return c.Transcription.Language
}

// RetryDelay returns the first transcription retry delay.
func (t Transcription) RetryDelay() time.Duration {
	return secondsToDuration(t.RetryDelaySeconds)
}

// RetryMaxDelay returns the cap on transcription retry delays.
func (t Transcription) RetryMaxDelay() time.Duration {
	return secondsToDuration(t.RetryMaxDelaySeconds)
}

// Timeout returns the vocal isolation subprocess timeout.
func (v VocalIsolation) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultTempDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "autolrc", "tmp")
	}
	return filepath.Join(os.TempDir(), "autolrc")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Sample returns the embedded sample configuration.
func Sample() string {
	return sampleConfig
}

// Encode renders cfg as TOML with secrets redacted.
func Encode(cfg Config) ([]byte, error) {
	if cfg.Transcription.APIKey != "" {
		cfg.Transcription.APIKey = "********"
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
