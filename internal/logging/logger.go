// Package logging builds the zerolog loggers used across Scenic. Runs log
// structured JSON to .scenic/logs/scenic.log so users can inspect failures
// after a session ends; interactive commands add a console writer on top.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const logFileName = "scenic.log"

// Options controls where log lines go and how verbose they are.
type Options struct {
	// Level is one of zerolog's level strings ("debug", "info", ...).
	// Empty means info.
	Level string
	// Console mirrors log lines to stderr in human-readable form. The TUI
	// leaves this off so log output does not fight the screen.
	Console bool
}

// Logger couples a zerolog.Logger with the file handle backing it.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates (or reuses) the log file in the given logs directory and
// returns a logger writing to it.
func New(logsDir string, opts Options) (*Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logsDir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	level, err := parseLevel(opts.Level)
	if err != nil {
		f.Close()
		return nil, err
	}

	var out io.Writer = f
	if opts.Console {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		out = zerolog.MultiLevelWriter(f, console)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: logger, file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(value string) (zerolog.Level, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(trimmed))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", value)
	}
	return level, nil
}
