// Package error provides the structured error type shared by the VibeScript core
// and the shell around it.
//
// Package: error
// Title: VibeScript Error Handling
// Description: Structured errors with a stable code, a severity, free-form
//              details and an optional source position. Lexical, syntax and
//              runtime failures of the interpreter pipeline are all expressed
//              as *Error values distinguished by their code.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation with codes and severity
// - 2026-10-02 v0.2.0: Source positions and pipeline stage codes
//
// Usage:
//
//	import vbserr "github.com/msto63/vibescript/foundation/core/error"
//
//	err := vbserr.New("unterminated string literal").
//		WithCode(vbserr.CodeLexical).
//		WithPosition(3, 14)
//
//	if vbserr.HasCode(err, vbserr.CodeLexical) {
//		fmt.Println(vbserr.Label(vbserr.GetCode(err)) + ": " + err.Error())
//	}
package error
