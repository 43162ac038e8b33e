package config

import (
	"fmt"
	"os"
	"strings"

	"autolrc/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	if err := c.normalizeAlignment(); err != nil {
		return err
	}
	c.normalizeVocalIsolation()
	c.normalizeOutput()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.APIKey = strings.Trim(strings.TrimSpace(t.APIKey), `"'`)
	if t.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			t.APIKey = strings.Trim(strings.TrimSpace(value), `"'`)
		}
	}
	t.BaseURL = strings.TrimRight(strings.TrimSpace(t.BaseURL), "/")
	if t.BaseURL == "" {
		t.BaseURL = defaultGeminiBaseURL
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultGeminiModel
	}
	t.Language = strings.TrimSpace(t.Language)
	if t.Language == "" {
		t.Language = defaultLanguage
	} else if language.Supported(t.Language) {
		t.Language = language.DisplayName(t.Language)
	}
	if t.CandidateCount <= 0 {
		t.CandidateCount = defaultCandidateCount
	}
	if t.MaxRetries <= 0 {
		t.MaxRetries = defaultMaxRetries
	}
	if t.RetryDelaySeconds < 0 {
		t.RetryDelaySeconds = 0
	}
	if t.BackoffMultiplier < 1 {
		t.BackoffMultiplier = 1
	}
	if t.RetryMaxDelaySeconds <= 0 {
		t.RetryMaxDelaySeconds = defaultRetryMaxDelay
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTimeoutSeconds
	}
	if t.RequestsPerMinute < 0 {
		t.RequestsPerMinute = 0
	}
}

func (c *Config) normalizeAlignment() error {
	a := &c.Alignment
	a.Language = strings.TrimSpace(a.Language)
	if a.Language != "" && language.Supported(a.Language) {
		a.Language = language.DisplayName(a.Language)
	}
	a.AcousticCommand = strings.TrimSpace(a.AcousticCommand)
	if a.AcousticCommand == "" {
		if value, ok := os.LookupEnv("AUTOLRC_ACOUSTIC_COMMAND"); ok {
			a.AcousticCommand = strings.TrimSpace(value)
		}
	}
	if a.SampleRate <= 0 {
		a.SampleRate = defaultSampleRate
	}
	if strings.TrimSpace(a.TransliterationTable) != "" {
		var err error
		if a.TransliterationTable, err = expandPath(strings.TrimSpace(a.TransliterationTable)); err != nil {
			return fmt.Errorf("alignment.transliteration_table: %w", err)
		}
	}
	a.Fallback = strings.ToLower(strings.TrimSpace(a.Fallback))
	if a.Fallback == "" {
		a.Fallback = defaultFallback
	}
	return nil
}

func (c *Config) normalizeVocalIsolation() {
	v := &c.VocalIsolation
	v.Python = strings.TrimSpace(v.Python)
	if v.Python == "" {
		v.Python = defaultPython
	}
	v.Model = strings.TrimSpace(v.Model)
	if v.Model == "" {
		v.Model = defaultDemucsModel
	}
	if v.TimeoutSeconds <= 0 {
		v.TimeoutSeconds = defaultDemucsTimeout
	}
}

func (c *Config) normalizeOutput() {
	if c.Output.LRCWordsPerLine <= 0 {
		c.Output.LRCWordsPerLine = defaultLRCWordsPerLine
	}
	if c.Output.ELRCWordsPerLine <= 0 {
		c.Output.ELRCWordsPerLine = defaultELRCWordsPerLine
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MaxConcurrency <= 0 {
		c.Workflow.MaxConcurrency = 1
	}
	exts := make([]string, 0, len(c.Workflow.Extensions))
	seen := make(map[string]struct{}, len(c.Workflow.Extensions))
	for _, ext := range c.Workflow.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Workflow.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
