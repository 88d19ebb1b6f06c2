package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
)

func TestParseInputs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"single", []string{"name=Ada"}, map[string]string{"name": "Ada"}, false},
		{"value with equals", []string{"expr=a=b"}, map[string]string{"expr": "a=b"}, false},
		{"empty value", []string{"n="}, map[string]string{"n": ""}, false},
		{"trimmed name", []string{" n =1"}, map[string]string{"n": "1"}, false},
		{"missing equals", []string{"name"}, nil, true},
		{"missing name", []string{"=1"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInputs(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseInputs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseInputs() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseInputs()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestExecute(t *testing.T) {
	color.NoColor = true
	e := engine.New(engine.Options{Logger: vbslog.Discard()})
	src := "spill_the_tea \"wer?\";\nvibe_check name;\nspill_the_tea \"hi \" + name;"

	tests := []struct {
		name       string
		inputs     map[string]string
		stdin      string
		prompt     bool
		wantOut    string
		wantPrompt string
		wantStatus interpreter.Status
	}{
		{
			name:       "input from flag",
			inputs:     map[string]string{"name": "Ada"},
			wantOut:    "wer?\nhi Ada\n",
			wantStatus: interpreter.StatusCompleted,
		},
		{
			name:       "input from prompt",
			inputs:     map[string]string{},
			stdin:      "Grace\n",
			prompt:     true,
			wantOut:    "wer?\nhi Grace\n",
			wantPrompt: "name? ",
			wantStatus: interpreter.StatusCompleted,
		},
		{
			name:       "no prompt",
			inputs:     map[string]string{},
			prompt:     false,
			wantOut:    "wer?\n",
			wantStatus: interpreter.StatusNeedsInput,
		},
		{
			name:       "stdin closed",
			inputs:     map[string]string{},
			prompt:     true,
			wantOut:    "wer?\n",
			wantPrompt: "name? ",
			wantStatus: interpreter.StatusNeedsInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, promptOut bytes.Buffer
			result := execute(context.Background(), e, src, tt.inputs, &out, &promptOut, strings.NewReader(tt.stdin), tt.prompt)

			if result.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", result.Status, tt.wantStatus)
			}
			if out.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
			if promptOut.String() != tt.wantPrompt {
				t.Errorf("prompt = %q, want %q", promptOut.String(), tt.wantPrompt)
			}
		})
	}
}

func TestExecute_RuntimeError(t *testing.T) {
	e := engine.New(engine.Options{Logger: vbslog.Discard()})
	var out bytes.Buffer

	result := execute(context.Background(), e, "spill_the_tea 1;\nspill_the_tea 1 / 0;", map[string]string{}, &out, &out, strings.NewReader(""), true)

	if result.Status != interpreter.StatusFailed {
		t.Fatalf("Status = %s, want failed", result.Status)
	}
	if out.String() != "1\n" {
		t.Errorf("output = %q, want %q", out.String(), "1\n")
	}
	if !strings.Contains(result.ErrorText(), "zero") {
		t.Errorf("ErrorText() = %q", result.ErrorText())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&exitError{code: exitNeedsInput}, 3},
		{&exitError{code: 1, err: errors.New("boom")}, 1},
		{errors.New("plain"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
