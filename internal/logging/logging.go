// Package logging configures the process-wide slog logger for the
// pagemap commands: level, text or JSON format, and a stderr, rotating
// file, or discarding sink.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel  = "PAGEMAP_LOG_LEVEL"
	EnvLogFormat = "PAGEMAP_LOG_FORMAT"
	EnvLogSink   = "PAGEMAP_LOG_SINK"
	EnvLogFile   = "PAGEMAP_LOG_FILE"
)

// Config selects where logs go. Empty fields take DefaultConfig's values.
type Config struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Sink   string `yaml:"sink,omitempty"`
	File   string `yaml:"file,omitempty"`

	MaxSizeMB  int   `yaml:"max_size_mb,omitempty"`
	MaxBackups int   `yaml:"max_backups,omitempty"`
	MaxAgeDays int   `yaml:"max_age_days,omitempty"`
	Compress   *bool `yaml:"compress,omitempty"`
}

// DefaultConfig logs warnings and errors as text on stderr.
func DefaultConfig() Config {
	compress := true
	return Config{
		Level:      "warn",
		Format:     string(FormatText),
		Sink:       string(SinkStderr),
		File:       "pagemap.log",
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 7,
		Compress:   &compress,
	}
}

// Merge overlays the non-empty fields of override on c.
func (c Config) Merge(override Config) Config {
	out := c
	if override.Level != "" {
		out.Level = override.Level
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Sink != "" {
		out.Sink = override.Sink
	}
	if override.File != "" {
		out.File = override.File
	}
	if override.MaxSizeMB > 0 {
		out.MaxSizeMB = override.MaxSizeMB
	}
	if override.MaxBackups > 0 {
		out.MaxBackups = override.MaxBackups
	}
	if override.MaxAgeDays > 0 {
		out.MaxAgeDays = override.MaxAgeDays
	}
	if override.Compress != nil {
		out.Compress = override.Compress
	}
	return out
}

// WithEnv applies the PAGEMAP_LOG_* environment variables.
func (c Config) WithEnv() Config {
	apply := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	apply(&c.Level, EnvLogLevel)
	apply(&c.Format, EnvLogFormat)
	apply(&c.Sink, EnvLogSink)
	apply(&c.File, EnvLogFile)
	return c
}

// Init installs the logger described by cfg, on top of the defaults and
// the environment, as slog's default. The returned function closes the
// sink.
func Init(cfg Config, app string) (func() error, error) {
	cfg = DefaultConfig().Merge(cfg).WithEnv()
	logger, closeFn, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.With(slog.String("app", app)))
	return closeFn, nil
}

// New builds a logger from a complete config.
func New(cfg Config) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	writer, closeFn, err := resolveWriter(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch Format(strings.ToLower(cfg.Format)) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	case FormatText, "":
		handler = slog.NewTextHandler(writer, opts)
	default:
		closeFn()
		return nil, nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return slog.New(handler), closeFn, nil
}

// ParseLevel accepts debug, info, warn(ing), error, or a number.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n), nil
	}
	return 0, fmt.Errorf("logging: unknown level %q", value)
}

func resolveWriter(cfg Config) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch Sink(strings.ToLower(cfg.Sink)) {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkStderr, "":
		return os.Stderr, noop, nil
	case SinkFile:
		path := strings.TrimSpace(cfg.File)
		if path == "" {
			return nil, nil, fmt.Errorf("logging: file sink needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress != nil && *cfg.Compress,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", cfg.Sink)
	}
}
