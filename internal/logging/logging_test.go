package logging

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(LevelInfo, &buf)

	l.Info("scan finished in %d ms", 42)

	line := strings.TrimSpace(buf.String())
	re := regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} \[INFO\] scan finished in 42 ms$`)
	if !re.MatchString(line) {
		t.Errorf("log line = %q", line)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Errorf("output contains filtered levels:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn") || !strings.Contains(out, "[ERROR] error") {
		t.Errorf("output missing enabled levels:\n%s", out)
	}

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Errorf("SetLevel(LevelDebug) output = %q", buf.String())
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(LevelInfo, &buf)
	child := parent.With("remote", "10.0.0.1")

	child.Info("request")
	if !strings.Contains(buf.String(), `"remote": "10.0.0.1"`) {
		t.Errorf("child output = %q, want structured field", buf.String())
	}

	// Level changes on the parent apply to children.
	buf.Reset()
	parent.SetLevel(LevelError)
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("child logged after parent raised level: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	var buf bytes.Buffer
	l := Discard()
	l.Error("nothing")
	l.SetOutput(&buf)
	l.Error("still nothing")
	if buf.Len() != 0 {
		t.Errorf("Discard logger wrote %q", buf.String())
	}
}
