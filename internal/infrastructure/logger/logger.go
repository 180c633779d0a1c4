// Package logger provides structured logging using zerolog.
// It supports JSON and console output formats with configurable log levels.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the logger configuration options.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string

	// Format is the output format (json, console)
	Format string

	// EnableCaller adds caller information to log entries
	EnableCaller bool

	// ServiceName is attached to every entry as "service"
	ServiceName string
}

// DefaultConfig returns the configuration used when none is given.
// Console output suits interactive runs of the scanner.
func DefaultConfig() Config {
	return Config{
		Level:        "info",
		Format:       "console",
		EnableCaller: false,
		ServiceName:  "flight-deal-scanner",
	}
}

// Logger wraps zerolog.Logger with scanner-specific context helpers.
type Logger struct {
	zerolog.Logger
}

// New creates a Logger writing to stderr, leaving stdout to the deal report.
func New(cfg Config) *Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput creates a new Logger with custom output writer.
// This is useful for testing.
func NewWithOutput(cfg Config, output io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = output
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
		}
	}

	ctx := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	if cfg.EnableCaller {
		ctx = ctx.Caller()
	}

	return &Logger{
		Logger: ctx.Logger(),
	}
}

// WithContext returns a new logger with an additional string field.
func (l *Logger) WithContext(key, value string) *Logger {
	return &Logger{
		Logger: l.With().Str(key, value).Logger(),
	}
}

// WithScanID returns a logger tagged with the id of one scan run.
func (l *Logger) WithScanID(scanID string) *Logger {
	return l.WithContext("scan_id", scanID)
}

// WithRoute returns a logger tagged with a route's codes and label.
func (l *Logger) WithRoute(origin, destination, label string) *Logger {
	return &Logger{
		Logger: l.With().
			Str("origin", origin).
			Str("destination", destination).
			Str("route", label).
			Logger(),
	}
}

// Nop returns a disabled logger that produces no output.
func Nop() *Logger {
	return &Logger{
		Logger: zerolog.Nop(),
	}
}

// Global is the process-wide logger, set up by main.
var Global *Logger

// Init initializes the global logger with the given configuration.
func Init(cfg Config) {
	Global = New(cfg)
}

// SetGlobal sets a custom logger as the global logger.
func SetGlobal(l *Logger) {
	Global = l
}

func global() *Logger {
	if Global == nil {
		Init(DefaultConfig())
	}
	return Global
}

// Error returns an error level event from the global logger.
func Error() *zerolog.Event {
	return global().Error()
}
