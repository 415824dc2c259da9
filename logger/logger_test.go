package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewDefaultLogger("migrator")
	logger.SetOutput(&buf)

	// tint abbreviates level names
	tests := []struct {
		level    LogLevel
		logFunc  func(string, ...any)
		message  string
		expected string
	}{
		{LogLevelDebug, logger.Debug, "Debug message", "DBG"},
		{LogLevelInfo, logger.Info, "Info message", "INF"},
		{LogLevelWarn, logger.Warn, "Warn message", "WRN"},
		{LogLevelError, logger.Error, "Error message", "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			buf.Reset()
			logger.SetLevel(LogLevelDebug)

			tt.logFunc(tt.message)

			output := buf.String()
			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got %q", tt.expected, output)
			}
			if !strings.Contains(output, tt.message) {
				t.Errorf("Expected output to contain message %q, got %q", tt.message, output)
			}
			if !strings.Contains(output, "component=migrator") {
				t.Errorf("Expected output to carry the component attribute, got %q", output)
			}
		})
	}
}

func TestDefaultLogger_NoColorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger("")
	logger.SetOutput(&buf)

	logger.Warn("plain %s", "text")
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("Expected no ANSI escapes when writing to a buffer, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "plain text") {
		t.Errorf("Expected formatted message, got %q", buf.String())
	}
}

func TestLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger("migrator")
	logger.SetOutput(&buf)

	logger.SetLevel(LogLevelWarn)

	buf.Reset()
	logger.Debug("This should not appear")
	if buf.Len() > 0 {
		t.Error("Debug message was logged when level is WARN")
	}

	buf.Reset()
	logger.Info("This should not appear")
	if buf.Len() > 0 {
		t.Error("Info message was logged when level is WARN")
	}

	buf.Reset()
	logger.Warn("This should appear")
	if buf.Len() == 0 {
		t.Error("Warn message was not logged when level is WARN")
	}

	buf.Reset()
	logger.Error("This should appear")
	if buf.Len() == 0 {
		t.Error("Error message was not logged when level is WARN")
	}

	logger.SetLevel(LogLevelNone)
	buf.Reset()
	logger.Error("silenced")
	if buf.Len() > 0 {
		t.Error("Error message was logged when level is NONE")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"none", LogLevelNone},
		{"off", LogLevelNone},
		{"invalid", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelNone, "NONE"},
		{LogLevelError, "ERROR"},
		{LogLevelWarn, "WARN"},
		{LogLevelInfo, "INFO"},
		{LogLevelDebug, "DEBUG"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	l := NewDefaultLogger("")
	l.SetOutput(&buf)
	l.SetLevel(LogLevelDebug)
	SetGlobalLogger(l)

	GetGlobalLogger().Info("global %d", 42)
	if !strings.Contains(buf.String(), "global 42") {
		t.Errorf("Expected global logger output, got %q", buf.String())
	}

	SetGlobalLogger(nil)
	buf.Reset()
	GetGlobalLogger().Error("dropped")
	if buf.Len() > 0 {
		t.Error("nil global logger should discard output")
	}
	if _, ok := GetGlobalLogger().(*NullLogger); !ok {
		t.Errorf("SetGlobalLogger(nil) installed %T", GetGlobalLogger())
	}
}

func TestNullLogger(t *testing.T) {
	n := NewNullLogger()
	if n.GetLevel() != LogLevelNone {
		t.Errorf("NullLogger level = %v, want NONE", n.GetLevel())
	}
	n.SetLevel(LogLevelDebug)
	if n.GetLevel() != LogLevelDebug {
		t.Errorf("NullLogger level = %v, want DEBUG", n.GetLevel())
	}
	n.Debug("nothing %s", "here")
}
