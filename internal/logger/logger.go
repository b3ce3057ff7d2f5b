// Package logger provides structured logging for the jsontree tools
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with jsontree-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "jsontree").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// SnapshotLogger returns a logger for snapshot file operations
func (l *Logger) SnapshotLogger(path string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "snapshot").
			Str("path", path).
			Logger(),
	}
}

// RenderLogger returns a logger for render operations
func (l *Logger) RenderLogger(mode string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "render").
			Str("mode", mode).
			Logger(),
	}
}

// LogSnapshotLoad logs a snapshot load with structured fields
func (l *Logger) LogSnapshotLoad(path string, size int, duration time.Duration, err error) {
	event := l.zlog.Debug().
		Str("component", "snapshot").
		Str("path", path).
		Int("size_bytes", size).
		Dur("duration_ms", duration)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "snapshot").
			Str("path", path).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Snapshot load completed")
}

// LogRenderOperation logs a render pass with structured fields
func (l *Logger) LogRenderOperation(mode string, outputSize int, duration time.Duration, err error) {
	event := l.zlog.Debug().
		Str("component", "render").
		Str("mode", mode).
		Int("output_bytes", outputSize).
		Dur("duration_ms", duration)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "render").
			Str("mode", mode).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Render completed")
}

// LogValidation logs a validation pass with structured fields
func (l *Logger) LogValidation(path string, size int, err error) {
	event := l.zlog.Info().
		Str("component", "validate").
		Str("path", path).
		Int("size_bytes", size)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "validate").
			Str("path", path).
			Err(err)
	}

	event.Msg("Validation completed")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
