// Package logging provides the diagnostic sink used by the analysis pipeline.
// The pipeline writes to it unconditionally; the configured level decides
// what is actually displayed.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Fields carries structured key/value context for a log entry
type Fields map[string]interface{}

// Logger is the diagnostic sink interface
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// With returns a logger that tags every entry with the component name
	With(component string) Logger
}

// Format selects the output encoding
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ZerologAdapter implements Logger on top of zerolog
type ZerologAdapter struct {
	logger zerolog.Logger
}

// New creates a logger writing to w in the given format.
// When verbose is false, debug entries are dropped.
func New(w io.Writer, format Format, verbose bool) *ZerologAdapter {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

// NewConsole creates a console logger on stderr
func NewConsole(verbose bool) *ZerologAdapter {
	return New(os.Stderr, FormatConsole, verbose)
}

// Debug logs a diagnostic entry, shown only in verbose mode
func (z *ZerologAdapter) Debug(msg string, fields Fields) {
	write(z.logger.Debug(), fields).Msg(msg)
}

// Info logs a progress entry
func (z *ZerologAdapter) Info(msg string, fields Fields) {
	write(z.logger.Info(), fields).Msg(msg)
}

// Warn logs a recoverable problem, such as a skipped dataset or pair
func (z *ZerologAdapter) Warn(msg string, fields Fields) {
	write(z.logger.Warn(), fields).Msg(msg)
}

// Error logs a failure together with its cause
func (z *ZerologAdapter) Error(msg string, err error, fields Fields) {
	write(z.logger.Error().Err(err), fields).Msg(msg)
}

// With returns a child logger whose entries carry the component field
func (z *ZerologAdapter) With(component string) Logger {
	return &ZerologAdapter{logger: z.logger.With().Str("component", component).Logger()}
}

func write(event *zerolog.Event, fields Fields) *zerolog.Event {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}

type nopLogger struct{}

// Nop returns a logger that discards everything
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, Fields)        {}
func (nopLogger) Info(string, Fields)         {}
func (nopLogger) Warn(string, Fields)         {}
func (nopLogger) Error(string, error, Fields) {}
func (n nopLogger) With(string) Logger        { return n }
