// Package logging provides structured logging infrastructure for storyboard.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Level aliases for slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger wraps slog.Logger with storyboard-specific configuration.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Config contains logger configuration options.
type Config struct {
	Level   slog.Level
	Output  io.Writer
	Enabled bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelWarn,
		Output:  os.Stderr,
		Enabled: true,
	}
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if !cfg.Enabled {
		return &Logger{
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		}
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: cfg.Level,
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Setup builds a logger for a CLI run. Verbose enables debug output. When
// logFile is set, records are appended to that file instead of stderr.
func Setup(verbose bool, logFile string) (*Logger, error) {
	cfg := DefaultConfig()
	if verbose {
		cfg.Level = LevelDebug
	}
	if logFile == "" {
		return New(cfg), nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", logFile, err)
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	cfg.Output = file

	l := New(cfg)
	l.closer = file
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Global logger instance.
var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Global returns the global logger instance.
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = New(DefaultConfig())
	}
	return globalLogger
}

// SetGlobal sets the global logger instance.
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Init initializes the global logger with the given level and output.
func Init(level slog.Level, w io.Writer) {
	SetGlobal(New(Config{
		Level:   level,
		Output:  w,
		Enabled: true,
	}))
}

// Package-level convenience functions that delegate to the global logger.

// Debug logs a debug message to the global logger.
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs an informational message to the global logger.
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs a warning message to the global logger.
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}

// Error logs an error message to the global logger.
func Error(msg string, args ...any) {
	Global().Error(msg, args...)
}
