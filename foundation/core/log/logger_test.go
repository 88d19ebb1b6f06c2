// File: logger_test.go
// Title: Logger Tests
// Description: Tests for level filtering, formatters, clones and error logging.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial tests
// - 2026-10-02 v0.2.0: Positioned error logging

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
)

func newBufferLogger(format Format, level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf, Name: "test"}), buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"WARN", LevelWarn, false},
		{" error ", LevelError, false},
		{"", LevelInfo, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("entries below warn were written: %q", out)
	}
	if !strings.Contains(out, "[WRN]") || !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelDebug)
	logger.WithField("component", "lexer").Info("tokenized", Fields{"tokens": 12})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	want := map[string]interface{}{
		"level":     "info",
		"message":   "tokenized",
		"logger":    "test",
		"component": "lexer",
		"tokens":    float64(12),
	}
	for k, v := range want {
		if decoded[k] != v {
			t.Errorf("%s = %v, want %v", k, decoded[k], v)
		}
	}
}

func TestTextFormatSortsFields(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelInfo)
	logger.Info("run", Fields{"b": 2, "a": 1, "c": 3})

	if !strings.Contains(buf.String(), "[a=1 b=2 c=3]") {
		t.Errorf("fields not sorted: %q", buf.String())
	}
}

func TestConsoleFormatWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	logger, buf := newBufferLogger(FormatConsole, LevelInfo)
	logger.Error("boom")

	if !strings.Contains(buf.String(), "[ERR] {test} boom") {
		t.Errorf("unexpected console output: %q", buf.String())
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	parent, buf := newBufferLogger(FormatText, LevelInfo)
	child := parent.WithField("run_id", "r1").WithLevel(LevelError)

	parent.Info("parent entry")
	if strings.Contains(buf.String(), "run_id") {
		t.Error("parent picked up the child's field")
	}
	if child.GetLevel() != LevelError || parent.GetLevel() != LevelInfo {
		t.Error("WithLevel changed the parent")
	}
}

func TestLogErrorUsesSeverity(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{
			name:      "script error",
			err:       vbserr.New("division by zero").WithCode(vbserr.CodeRuntime).WithPosition(1, 4),
			wantLevel: "debug",
		},
		{
			name:      "database error",
			err:       vbserr.New("disk I/O").WithCode(vbserr.CodeDatabaseError),
			wantLevel: "error",
		},
		{
			name:      "plain error",
			err:       errors.New("plain"),
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(FormatJSON, LevelTrace)
			logger.LogError(tt.err)

			var decoded map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if decoded["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", decoded["level"], tt.wantLevel)
			}
		})
	}
}

func TestLogErrorPosition(t *testing.T) {
	logger, buf := newBufferLogger(FormatJSON, LevelTrace)
	logger.LogError(vbserr.New("bad").WithCode(vbserr.CodeSyntax).WithPosition(7, 3))

	var decoded map[string]interface{}
	_ = json.Unmarshal(buf.Bytes(), &decoded)
	if decoded["line"] != float64(7) || decoded["column"] != float64(3) {
		t.Errorf("position fields = %v:%v", decoded["line"], decoded["column"])
	}
	if decoded["error_code"] != "VIBE_SYNTAX" {
		t.Errorf("error_code = %v", decoded["error_code"])
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelDebug)

	timer := logger.StartTimer("evaluate").WithField("steps", 3)
	elapsed := timer.Stop()
	if elapsed < 0 {
		t.Errorf("elapsed = %v", elapsed)
	}
	timer.Stop()

	out := buf.String()
	if strings.Count(out, "evaluate completed") != 1 {
		t.Errorf("timer should log once: %q", out)
	}
	if !strings.Contains(out, "steps=3") {
		t.Errorf("timer field missing: %q", out)
	}
}

func TestTimerFailure(t *testing.T) {
	logger, buf := newBufferLogger(FormatText, LevelDebug)
	logger.StartTimer("parse").StopWithError(errors.New("bad input"))

	if !strings.Contains(buf.String(), "[WRN]") || !strings.Contains(buf.String(), "parse failed") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.IsLevelEnabled(LevelFatal) {
		t.Error("Discard() logger should not enable any level")
	}
}

func TestDefaultLogger(t *testing.T) {
	prev := GetDefault()
	defer SetDefault(prev)

	custom := New().WithName("custom")
	SetDefault(custom)
	if GetDefault() != custom {
		t.Error("SetDefault() did not replace the default logger")
	}
	SetDefault(nil)
	if GetDefault() != custom {
		t.Error("SetDefault(nil) should be ignored")
	}
}
