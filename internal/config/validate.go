package config

import (
	"errors"
	"fmt"
	"strings"

	"autolrc/internal/language"
	"autolrc/internal/lyrics"
)

// Validate ensures the configuration is usable. The Gemini API key is not
// required here: sidecar transcripts let a batch run without it, and the
// transcription stage reports a configuration error when it is needed.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return errors.New("paths.temp_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	if !language.Supported(t.Language) {
		return fmt.Errorf("transcription.language %q is not supported (known: %s)", t.Language, strings.Join(language.Names(), ", "))
	}
	if t.Temperature < 0 || t.Temperature > 2 {
		return errors.New("transcription.temperature must be between 0 and 2")
	}
	if t.TopP < 0 || t.TopP > 1 {
		return errors.New("transcription.top_p must be between 0 and 1")
	}
	if t.TopK < 0 {
		return errors.New("transcription.top_k must be non-negative")
	}
	if t.RetryMaxDelaySeconds < t.RetryDelaySeconds {
		return errors.New("transcription.retry_max_delay_seconds must be >= retry_delay_seconds")
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if lang := c.Alignment.Language; lang != "" && !language.Supported(lang) {
		return fmt.Errorf("alignment.language %q is not supported", lang)
	}
	if _, err := lyrics.ParseStrategy(c.Alignment.Fallback); err != nil {
		return fmt.Errorf("alignment.fallback: %w", err)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !c.Output.CreateLRC && !c.Output.CreateELRC && !c.Output.CreateTXT {
		return errors.New("output: at least one of create_lrc, create_elrc or create_txt must be true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
}
