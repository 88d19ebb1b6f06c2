// File: token.go
// Title: VibeScript Tokens
// Description: Token kinds, the keyword table and the Token record produced
//              by the lexer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-16
// Modified: 2026-09-16
//
// Change History:
// - 2026-09-16 v0.1.0: Initial token definitions

package parser

import (
	"fmt"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Identifiers and literals
	TokenIdentifier // x, double, _tmp
	TokenInteger    // 42
	TokenString     // "text"

	// Statement keywords
	TokenPrint    // spill_the_tea
	TokenInput    // vibe_check
	TokenIf       // no_cap
	TokenElse     // cap
	TokenWhile    // lowkey
	TokenFor      // highkey
	TokenFunction // rizz_up
	TokenReturn   // slay
	TokenBegin    // lets_go
	TokenEnd      // yeet
	TokenBreak    // and_i_oop
	TokenContinue // as_if
	TokenRentFree // rent_free
	TokenMainChar // main_character

	// Type keywords
	TokenTypeInt    // lit
	TokenTypeString // tea
	TokenTypeBool   // mood
	TokenTypeList   // stan

	// Literal keywords
	TokenTrue  // this_slaps
	TokenFalse // im_dead
	TokenNull  // ghost

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEqual     // ==
	TokenNotEqual  // !=
	TokenLess      // <
	TokenGreater   // >
	TokenLessEq    // <=
	TokenGreaterEq // >=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenComma        // ,
	TokenSemicolon    // ;
	TokenColon        // :
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenIdentifier:   "IDENTIFIER",
	TokenInteger:      "INTEGER",
	TokenString:       "STRING",
	TokenPrint:        "SPILL_THE_TEA",
	TokenInput:        "VIBE_CHECK",
	TokenIf:           "NO_CAP",
	TokenElse:         "CAP",
	TokenWhile:        "LOWKEY",
	TokenFor:          "HIGHKEY",
	TokenFunction:     "RIZZ_UP",
	TokenReturn:       "SLAY",
	TokenBegin:        "LETS_GO",
	TokenEnd:          "YEET",
	TokenBreak:        "AND_I_OOP",
	TokenContinue:     "AS_IF",
	TokenRentFree:     "RENT_FREE",
	TokenMainChar:     "MAIN_CHARACTER",
	TokenTypeInt:      "LIT",
	TokenTypeString:   "TEA",
	TokenTypeBool:     "MOOD",
	TokenTypeList:     "STAN",
	TokenTrue:         "THIS_SLAPS",
	TokenFalse:        "IM_DEAD",
	TokenNull:         "GHOST",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenStar:         "MULTIPLY",
	TokenSlash:        "DIVIDE",
	TokenPercent:      "MODULO",
	TokenAssign:       "ASSIGN",
	TokenEqual:        "EQUALS",
	TokenNotEqual:     "NOT_EQUALS",
	TokenLess:         "LESS_THAN",
	TokenGreater:      "GREATER_THAN",
	TokenLessEq:       "LESS_EQUAL",
	TokenGreaterEq:    "GREATER_EQUAL",
	TokenLeftParen:    "LPAREN",
	TokenRightParen:   "RPAREN",
	TokenLeftBracket:  "LBRACKET",
	TokenRightBracket: "RBRACKET",
	TokenComma:        "COMMA",
	TokenSemicolon:    "SEMICOLON",
	TokenColon:        "COLON",
}

// String returns the upper-case name of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(tt))
}

// IsTypeKeyword reports whether the token starts a variable declaration
func (tt TokenType) IsTypeKeyword() bool {
	switch tt {
	case TokenTypeInt, TokenTypeString, TokenTypeBool, TokenTypeList:
		return true
	default:
		return false
	}
}

// keywords maps the case-exact keyword spelling to its token type
var keywords = map[string]TokenType{
	"spill_the_tea":  TokenPrint,
	"vibe_check":     TokenInput,
	"no_cap":         TokenIf,
	"cap":            TokenElse,
	"lowkey":         TokenWhile,
	"highkey":        TokenFor,
	"rizz_up":        TokenFunction,
	"slay":           TokenReturn,
	"lets_go":        TokenBegin,
	"yeet":           TokenEnd,
	"and_i_oop":      TokenBreak,
	"as_if":          TokenContinue,
	"rent_free":      TokenRentFree,
	"main_character": TokenMainChar,
	"lit":            TokenTypeInt,
	"tea":            TokenTypeString,
	"mood":           TokenTypeBool,
	"stan":           TokenTypeList,
	"this_slaps":     TokenTrue,
	"im_dead":        TokenFalse,
	"ghost":          TokenNull,
}

// LookupIdent returns the keyword type for ident, or TokenIdentifier
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}

// Keywords returns the keyword spellings, e.g. for editor completion
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType // Token type
	Value    string    // Literal text; strings are unescaped
	Position int       // Byte offset in input
	Line     int       // Line number (1-based)
	Column   int       // Column number (1-based, in runes)
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
}
