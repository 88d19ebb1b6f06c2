// Package log provides structured logging for the VibeScript core and tools.
//
// Package: log
// Title: VibeScript Structured Logging
// Description: Leveled, structured logging with JSON, text and colored console
//              output. Loggers are immutable: every With* call returns a clone,
//              so a component can derive its own logger without affecting others.
//              Errors from the core/error package are logged with their code,
//              severity and source position.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation
// - 2026-10-02 v0.2.0: Console colors via fatih/color, sorted field output
//
// Usage:
//
//	import vbslog "github.com/msto63/vibescript/foundation/core/log"
//
//	logger := vbslog.New().
//		WithLevel(vbslog.LevelDebug).
//		WithFormat(vbslog.FormatConsole).
//		WithName("interpreter")
//
//	logger.Debug("call", vbslog.Fields{"function": "double", "depth": 2})
//
//	timer := logger.StartTimer("run")
//	// ... evaluate program
//	timer.Stop()
package log
