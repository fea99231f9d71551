package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"  debug  ", zapcore.DebugLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, testCase := range cases {
		if got := parseLevel(testCase.input); got != testCase.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", testCase.input, got, testCase.want)
		}
	}
}

func TestNewLoggerBuildsForEveryLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		logger, err := NewLogger(level)
		if err != nil {
			t.Fatalf("NewLogger(%q) failed: %v", level, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(%q) returned nil", level)
		}
	}
}
