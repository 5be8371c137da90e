// Package logging builds the slog loggers used across the server. It
// exists so the CLI, the config file and the serving code agree on one
// level/format vocabulary.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Level is the minimum severity a logger emits.
type Level = slog.Level

// Levels accepted by ParseLevel.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the log encoding.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger construction parameters.
type Config struct {
	// Level is the minimum level to emit.
	Level Level

	// Format is the output encoding, text or json.
	Format Format

	// Output receives the log stream. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the defaults used when nothing is configured:
// info-level text on stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatText, Output: os.Stderr}
}

// New builds a logger from the configuration.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(handler)
}

// Nop returns a logger that discards everything. Use it where a logger
// is required but output is unwanted, such as library defaults and tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to its Level. Unrecognized names and the
// empty string fall back to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseFormat maps a format name to its Format. Anything but "json"
// falls back to text.
func ParseFormat(s string) Format {
	switch s {
	case "json", "JSON":
		return FormatJSON
	default:
		return FormatText
	}
}
