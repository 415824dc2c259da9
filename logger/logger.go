// Package logger provides the printf-style logger used by the migrator and
// a process-wide default that drivers pick up when they are created.
package logger

import (
	"io"
	"sync/atomic"
)

// Logger is the logging surface shared by drivers, the runner and the CLI
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)

	SetLevel(level LogLevel)
	GetLevel() LogLevel
	SetOutput(w io.Writer)
}

// NullLogger discards everything. Its level is tracked so callers that
// gate work on GetLevel behave consistently.
type NullLogger struct {
	level atomic.Int32
}

// NewNullLogger creates a logger at LogLevelNone
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (n *NullLogger) Debug(string, ...any) {}
func (n *NullLogger) Info(string, ...any)  {}
func (n *NullLogger) Warn(string, ...any)  {}
func (n *NullLogger) Error(string, ...any) {}

func (n *NullLogger) SetLevel(level LogLevel) { n.level.Store(int32(level)) }
func (n *NullLogger) GetLevel() LogLevel      { return LogLevel(n.level.Load()) }
func (n *NullLogger) SetOutput(io.Writer)     {}

type holder struct{ Logger }

var global atomic.Pointer[holder]

func init() {
	global.Store(&holder{NewNullLogger()})
}

// SetGlobalLogger replaces the process-wide logger. nil silences it.
func SetGlobalLogger(l Logger) {
	if l == nil {
		l = NewNullLogger()
	}
	global.Store(&holder{l})
}

// GetGlobalLogger returns the process-wide logger, a NullLogger by default
func GetGlobalLogger() Logger {
	return global.Load().Logger
}
