// File: logger_test.go
// Title: Logger Tests
// Description: Tests for levels, formats, context fields and timers.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf}), buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"WRN", LevelWarn, false},
		{" error ", LevelError, false},
		{"", LevelInfo, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("logfmt"); err != nil || f != FormatLogfmt {
		t.Errorf("ParseFormat(logfmt) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered message: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("output missing warn message: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelDebug)
	logger.WithName("parser").WithField("component", "lexer").
		Debug("token read", Fields{"kind": "INTEGER"})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v (output %q)", err, buf.String())
	}

	want := map[string]string{
		"level":     "debug",
		"message":   "token read",
		"logger":    "parser",
		"component": "lexer",
		"kind":      "INTEGER",
	}
	for k, v := range want {
		if decoded[k] != v {
			t.Errorf("%s = %v, want %v", k, decoded[k], v)
		}
	}
}

func TestTextFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelInfo)
	logger.Info("parsed", Fields{"b": 2, "a": 1, "c": 3})

	if !strings.Contains(buf.String(), "[a=1 b=2 c=3]") {
		t.Errorf("fields not sorted: %q", buf.String())
	}
}

func TestWithFieldDoesNotLeak(t *testing.T) {
	parent, buf := newBufferLogger(FormatLogfmt, LevelInfo)
	child := parent.WithField("request", "r1")

	parent.Info("from parent")
	if strings.Contains(buf.String(), "request=") {
		t.Errorf("parent picked up child field: %q", buf.String())
	}

	buf.Reset()
	child.Info("from child")
	if !strings.Contains(buf.String(), `request="r1"`) {
		t.Errorf("child missing field: %q", buf.String())
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(FormatLogfmt, LevelDebug)

	timer := logger.StartTimer("parse")
	timer.WithField("statements", 2).Stop()

	out := buf.String()
	if !strings.Contains(out, `message="parse completed"`) {
		t.Errorf("missing completion message: %q", out)
	}
	if !strings.Contains(out, "statements=2") {
		t.Errorf("missing timer field: %q", out)
	}
	if timer.Stop() != 0 {
		t.Error("second Stop() should return 0")
	}
}

func TestTimerLevel(t *testing.T) {
	tests := []struct {
		name        string
		loggerLevel Level
		timerLevel  Level
		want        string
	}{
		{"debug timer below warn logger", LevelWarn, LevelDebug, ""},
		{"info timer at info logger", LevelInfo, LevelInfo, "[INF] parse completed"},
		{"debug timer at trace logger", LevelTrace, LevelDebug, "[DBG] parse completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(FormatText, tt.loggerLevel)
			logger.StartTimer("parse").WithLevel(tt.timerLevel).Stop()

			if tt.want == "" {
				if buf.Len() != 0 {
					t.Errorf("output = %q, want none", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.IsLevelEnabled(LevelFatal) {
		t.Error("Discard() logger should not enable any level")
	}
}
