// Package logger builds the charmbracelet/log logger shared by every component.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Options configures New
type Options struct {
	Verbose bool   // Debug level, also log to stderr
	File    string // Log file path; empty logs to stderr only
	Stderr  io.Writer
}

// Logger wraps a *log.Logger together with the file it writes to
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates a logger. Logs are appended to opts.File; verbose mode also writes to
// stderr. When the file cannot be opened the logger falls back to stderr.
func New(opts Options) *Logger {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err == nil {
			file, _ = os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		}
	}

	var output io.Writer
	switch {
	case file != nil && opts.Verbose:
		output = io.MultiWriter(file, stderr)
	case file != nil:
		output = file
	default:
		// Without a file, only warnings reach the terminal unless verbose
		output = stderr
		if !opts.Verbose {
			level = log.WarnLevel
		}
	}

	l := log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "pitlane",
	})
	return &Logger{Logger: l, file: file}
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything, for callers that pass no logger
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
