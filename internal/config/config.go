package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPollInterval = 50 * time.Millisecond
	MinPollInterval     = 5 * time.Millisecond
)

// CaptureFormat selects how window captures are written by the CLI.
type CaptureFormat string

const (
	CaptureBase64 CaptureFormat = "base64" // Native payload as returned.
	CapturePNG    CaptureFormat = "png"    // Payload decoded to raw PNG bytes.
)

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"WINWATCH_LOG_LEVEL"`
	// Format is console or json.
	Format string `yaml:"format" env:"WINWATCH_LOG_FORMAT"`
}

// JournalConfig configures the window activation journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled" env:"WINWATCH_JOURNAL_ENABLED"`
	// Path is the SQLite file. Empty means <data dir>/winwatch/journal.db.
	Path string `yaml:"path,omitempty" env:"WINWATCH_JOURNAL_PATH"`
}

type CaptureConfig struct {
	Format CaptureFormat `yaml:"format" env:"WINWATCH_CAPTURE_FORMAT"`
}

// Config is the effective winwatch configuration.
type Config struct {
	// Display and XAuthority are used when the process environment has no
	// X11 session of its own.
	Display      string        `yaml:"display,omitempty" env:"WINWATCH_DISPLAY"`
	XAuthority   string        `yaml:"xauthority,omitempty" env:"WINWATCH_XAUTHORITY"`
	PollInterval time.Duration `yaml:"poll_interval" env:"WINWATCH_POLL_INTERVAL"`
	Log          LogConfig     `yaml:"log"`
	Journal      JournalConfig `yaml:"journal"`
	Capture      CaptureConfig `yaml:"capture"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		PollInterval: DefaultPollInterval,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Capture: CaptureConfig{
			Format: CaptureBase64,
		},
	}
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("$%s: %s: %v", e.Source.Name, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (c *Config) Validate() error {
	if c.PollInterval < MinPollInterval {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be >= %s", MinPollInterval)}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("log.level must be one of: debug, info, warn, error")}
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return &ValidationError{Path: "log.format", Err: fmt.Errorf("log.format must be one of: console, json")}
	}
	switch c.Capture.Format {
	case CaptureBase64, CapturePNG:
	default:
		return &ValidationError{Path: "capture.format", Err: fmt.Errorf("capture.format must be one of: base64, png")}
	}
	if c.Journal.Path != "" && strings.TrimSpace(c.Journal.Path) == "" {
		return &ValidationError{Path: "journal.path", Err: fmt.Errorf("journal.path must not be blank")}
	}
	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
