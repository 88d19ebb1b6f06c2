// Package interpreter executes parsed VibeScript programs.
//
// Package: interpreter
// Title: VibeScript Tree-Walking Interpreter
// Description: Walks an ast.Program over a chain of lexically nested
//              environments. Statements return a completion (normal, return,
//              break, continue) next to the error channel, so non-local
//              control flow never travels as an error. A run ends in exactly
//              one of three states: completed, needs input (an input statement
//              found no pre-supplied binding) or failed with a structured
//              runtime error. Output printed before the end is always kept.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18
//
// Change History:
// - 2026-09-18 v0.1.0: Initial interpreter
package interpreter
