// File: result.go
// Title: Run Results
// Description: The outcome of a run: captured output plus exactly one of
//              completion, a pending input request or a runtime error.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18
//
// Change History:
// - 2026-09-18 v0.1.0: Initial result type

package interpreter

import (
	"encoding/json"
	"fmt"
	"time"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
)

// Status is the terminal state of a run
type Status int

const (
	// StatusCompleted means the program ran to its end or a control-flow
	// escape (slay, and_i_oop, as_if) reached the top level
	StatusCompleted Status = iota

	// StatusNeedsInput means an input statement found no binding; rerun
	// with Result.PendingInput added to the bindings
	StatusNeedsInput

	// StatusFailed means the run aborted with Result.Err
	StatusFailed
)

// String returns the wire name of the status
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusNeedsInput:
		return "needs_input"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status by name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Result describes a finished run
type Result struct {
	Output       string
	Status       Status
	PendingInput string
	Err          *vbserr.Error
	Steps        int
	Duration     time.Duration
}

// Succeeded reports whether the run completed
func (r *Result) Succeeded() bool {
	return r.Status == StatusCompleted
}

// ErrorText returns the error prefixed with its label, e.g.
// "Runtime Error: division by zero", or "" if the run did not fail.
func (r *Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return vbserr.Label(r.Err.Code()) + ": " + r.Err.Error()
}

// InputRequest is returned through the error channel when an input statement
// has no binding. Run turns it into StatusNeedsInput; it is never reported as
// a failure.
type InputRequest struct {
	Name string
}

func (r *InputRequest) Error() string {
	return fmt.Sprintf("input required for '%s'", r.Name)
}
