// Package logging builds the slog logger used by the enableapp command.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how to log.
type Config struct {
	Level    string // debug, info, warn, error
	Format   string // text or json
	FilePath string // optional rotating log file, written in addition to the console

	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int

	// ShowTime keeps timestamps in text output. They are omitted by default
	// for cleaner terminal output.
	ShowTime bool
}

// New returns a logger for cfg that writes to console and, when FilePath is
// set, to a rotating file. The returned closer releases the file and is
// never nil.
func New(console io.Writer, cfg Config) (*slog.Logger, io.Closer) {
	if console == nil {
		console = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	output := console
	if cfg.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.FileMaxSizeMB, 10),
			MaxBackups: orDefault(cfg.FileMaxBackups, 3),
			MaxAge:     orDefault(cfg.FileMaxAgeDays, 30),
		}
		output = io.MultiWriter(console, lj)
		closer = lj
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		if !cfg.ShowTime {
			opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
				// Omit time for cleaner output
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			}
		}
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler).With("app", "enableapp"), closer
}

// ParseLevel converts a level name to slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s is a recognized log level.
func ValidLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidFormat reports whether s is a recognized log format.
func ValidFormat(s string) bool {
	return s == "text" || s == "json"
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
