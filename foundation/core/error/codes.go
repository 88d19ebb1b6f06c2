// File: codes.go
// Title: Error Codes
// Description: Stable error codes used to classify failures. The VIBE_* codes
//              mirror the stages of the interpreter pipeline; the remaining
//              codes are used by the shell (HTTP API, store, catalog, config).
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial set of generic codes
// - 2026-10-02 v0.2.0: Pipeline stage codes and labels

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Interpreter pipeline
	CodeLexical Code = "VIBE_LEXICAL"
	CodeSyntax  Code = "VIBE_SYNTAX"
	CodeRuntime Code = "VIBE_RUNTIME"

	// Shell
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeDatabaseError Code = "DATABASE_ERROR"
	CodeCatalogError  Code = "CATALOG_ERROR"
)

// String returns the code as plain string
func (c Code) String() string {
	return string(c)
}

// IsPipeline reports whether the code belongs to the lex/parse/evaluate pipeline
func (c Code) IsPipeline() bool {
	switch c {
	case CodeLexical, CodeSyntax, CodeRuntime:
		return true
	default:
		return false
	}
}

// Label returns the user facing prefix for an error code, e.g. "Syntax Error".
func Label(c Code) string {
	switch c {
	case CodeLexical:
		return "Lexical Error"
	case CodeSyntax:
		return "Syntax Error"
	case CodeRuntime:
		return "Runtime Error"
	case CodeNotFound:
		return "Not Found"
	case CodeInvalidInput:
		return "Invalid Input"
	case CodeConfigError:
		return "Config Error"
	case CodeDatabaseError:
		return "Database Error"
	case CodeCatalogError:
		return "Catalog Error"
	default:
		return "Error"
	}
}

// DefaultSeverity returns the severity an error with this code gets unless set explicitly
func DefaultSeverity(c Code) Severity {
	switch c {
	case CodeLexical, CodeSyntax, CodeRuntime, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	case CodeDatabaseError, CodeInternal:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
