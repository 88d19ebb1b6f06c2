// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     playground
// Description: Message types for async operations in the terminal playground
// Author:      Mike Stoffels
// Created:     2026-09-26
// License:     MIT
// ============================================================================

package playground

import (
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/internal/catalog"
)

// runFinishedMsg is sent when a program run ends
type runFinishedMsg struct {
	result *engine.Result
}

// examplesLoadedMsg carries the catalog listing
type examplesLoadedMsg struct {
	examples []catalog.Summary
}

// exampleLoadedMsg carries the code of a picked example
type exampleLoadedMsg struct {
	example *catalog.Example
	err     error
}
