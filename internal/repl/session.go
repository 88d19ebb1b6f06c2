// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     repl
// Description: Accumulating program session behind the interactive shells
// Author:      Mike Stoffels
// Created:     2026-09-25
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"strings"

	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
)

// Outcome is the result of evaluating one chunk
type Outcome struct {
	// NewOutput is the output the chunk added to the session
	NewOutput string
	Result    *engine.Result
	// Accepted reports whether the chunk became part of the session source
	Accepted bool
}

// Session accumulates successfully evaluated chunks. Every evaluation
// re-runs the whole session; programs are deterministic, so the output of
// earlier chunks is reproduced and only the difference is reported.
type Session struct {
	engine   *engine.Engine
	chunks   []string
	inputs   map[string]string
	emitted  string // output shown so far
	accepted string // output of the accepted source
	pending  string // chunk waiting for an input value
}

// NewSession creates an empty session
func NewSession(e *engine.Engine) *Session {
	return &Session{
		engine: e,
		inputs: make(map[string]string),
	}
}

// Source returns the accepted session source
func (s *Session) Source() string {
	return strings.Join(s.chunks, "\n")
}

// Inputs returns the input bindings collected so far
func (s *Session) Inputs() map[string]string {
	out := make(map[string]string, len(s.inputs))
	for k, v := range s.inputs {
		out[k] = v
	}
	return out
}

// Reset clears source, inputs and output
func (s *Session) Reset() {
	s.chunks = nil
	s.inputs = make(map[string]string)
	s.emitted = ""
	s.accepted = ""
	s.pending = ""
}

// Pending reports whether a chunk is waiting for an input value
func (s *Session) Pending() bool {
	return s.pending != ""
}

// Eval runs the session extended by chunk. A completed run accepts the
// chunk; a run that needs input keeps the chunk pending until Provide is
// called; a failed run discards it.
func (s *Session) Eval(ctx context.Context, chunk string) *Outcome {
	s.pending = chunk
	return s.run(ctx)
}

// Provide binds an input value and resumes the pending chunk
func (s *Session) Provide(ctx context.Context, name, value string) *Outcome {
	s.inputs[name] = value
	if s.pending == "" {
		return &Outcome{}
	}
	return s.run(ctx)
}

// Abandon drops the pending chunk
func (s *Session) Abandon() {
	s.pending = ""
	s.emitted = s.accepted
}

func (s *Session) run(ctx context.Context) *Outcome {
	src := strings.Join(append(append([]string(nil), s.chunks...), s.pending), "\n")
	result := s.engine.Run(ctx, src, s.inputs)

	outcome := &Outcome{Result: result}
	output := result.Output
	if strings.HasPrefix(output, s.emitted) {
		outcome.NewOutput = output[len(s.emitted):]
	} else {
		outcome.NewOutput = output
	}

	switch result.Status {
	case interpreter.StatusCompleted:
		s.chunks = append(s.chunks, s.pending)
		s.pending = ""
		s.emitted = output
		s.accepted = output
		outcome.Accepted = true
	case interpreter.StatusNeedsInput:
		s.emitted = output
	default:
		// The failed chunk's output is shown once and then forgotten
		s.pending = ""
		s.emitted = s.accepted
	}
	return outcome
}
