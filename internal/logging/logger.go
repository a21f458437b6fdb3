// Package logging builds the process logger: human-readable output on
// stderr and, when configured, a size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Prefix string
	Level  string // debug, info, warn, error; empty means info
	Debug  bool   // forces debug level
	File   string // optional rotated log file
	Output io.Writer
}

// Rotation limits for the log file.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// New returns a logger and a function that releases the log file, if any.
// An unusable log file falls back to console-only logging with a warning.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Debug {
		level = log.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	closeFn := func() error { return nil }
	var fileErr error
	if opts.File != "" {
		rotator, err := newRotator(opts.File)
		if err != nil {
			fileErr = err
		} else {
			out = io.MultiWriter(out, rotator)
			closeFn = rotator.Close
		}
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix:          opts.Prefix,
		Level:           level,
		ReportTimestamp: opts.File != "" && fileErr == nil,
	})
	if fileErr != nil {
		logger.Warn("logging to console only", "path", opts.File, "err", fileErr)
	}
	return logger, closeFn, nil
}

func newRotator(path string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
		LocalTime:  true,
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
