// Package parser implements the lexical and syntactic analysis of VibeScript.
//
// Package: parser
// Title: VibeScript Lexer and Parser
// Description: The lexer turns source text into position-tagged tokens, pulled
//              one at a time or drained eagerly. The recursive-descent parser
//              consumes that stream with a single token of lookahead (plus one
//              peeked token to tell assignments from expression statements)
//              and builds an immutable ast.Program. Neither stage recovers:
//              the first error is returned as a *error.Error carrying the
//              VIBE_LEXICAL or VIBE_SYNTAX code and a 1-based line/column.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-16
// Modified: 2026-09-16
//
// Change History:
// - 2026-09-16 v0.1.0: Initial lexer and parser
//
// Usage:
//
//	program, err := parser.Parse(`lit x = 5; spill_the_tea x + 3;`)
//	if err != nil {
//		// err is a *vbserr.Error with code VIBE_LEXICAL or VIBE_SYNTAX
//	}
package parser
