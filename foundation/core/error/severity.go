// File: severity.go
// Title: Error Severity
// Description: Severity levels used to route errors to log levels.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-14
// Modified: 2026-09-14
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks failures caused by the caller's input, e.g. a script error
	SeverityLow Severity = iota

	// SeverityMedium marks failures that degrade a feature
	SeverityMedium

	// SeverityHigh marks failures of a backing resource such as the database
	SeverityHigh

	// SeverityCritical marks failures that leave the process unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
