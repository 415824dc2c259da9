package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// DefaultLogger renders log lines through slog with a tint handler
type DefaultLogger struct {
	mu     sync.RWMutex
	level  LogLevel
	lvl    *slog.LevelVar
	logger *slog.Logger
	prefix string
}

// NewDefaultLogger creates a new default logger writing to stderr
func NewDefaultLogger(prefix string) *DefaultLogger {
	l := &DefaultLogger{
		level:  LogLevelInfo,
		lvl:    &slog.LevelVar{},
		prefix: prefix,
	}
	l.lvl.Set(LogLevelInfo.slogLevel())
	l.logger = l.newSlog(os.Stderr)
	return l
}

func (l *DefaultLogger) newSlog(w io.Writer) *slog.Logger {
	noColor := true
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      l.lvl,
		NoColor:    noColor,
		TimeFormat: "15:04:05.000",
	}))
	if l.prefix != "" {
		logger = logger.With("component", l.prefix)
	}
	return logger
}

// SetLevel sets the logging level
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.lvl.Set(level.slogLevel())
}

// GetLevel returns the current logging level
func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetOutput sets the output writer
func (l *DefaultLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = l.newSlog(w)
}

// Slog exposes the underlying slog logger
func (l *DefaultLogger) Slog() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.level < level {
		return
	}
	l.logger.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an info message
func (l *DefaultLogger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(format string, args ...any) {
	l.log(LogLevelWarn, format, args...)
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}
