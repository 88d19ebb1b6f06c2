// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI, server and language
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants
const (
	// Release version of the vibe binary
	Platform = "1.0.0"

	// Language revision understood by the interpreter
	Language = "1.0.0"

	// Component versions
	Playground = "1.0.0"
	REPL       = "1.0.0"
	Store      = "1.0.0"
)

// Build metadata, set via -ldflags
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "language":
		return Language
	case "playground":
		return Playground
	case "repl":
		return REPL
	case "store":
		return Store
	default:
		return Platform
	}
}

// String returns the full version line
func String() string {
	return fmt.Sprintf("vibe %s (language %s, commit %s, built %s)", Platform, Language, Commit, BuildDate)
}
