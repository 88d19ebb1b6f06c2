// File: lexer.go
// Title: VibeScript Lexical Analyzer (Tokenizer)
// Description: Converts source text into tokens. Tracks 1-based line and
//              column (counted in runes) for every token; consuming a newline
//              increments the line and resets the column. Tokens can be pulled
//              one at a time with NextToken or drained with Tokenize; both
//              produce the same sequence.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-16
// Modified: 2026-09-16
//
// Change History:
// - 2026-09-16 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
)

// Lexer tokenizes VibeScript source text
type Lexer struct {
	input  string
	pos    int  // byte offset of ch
	next   int  // byte offset after ch
	ch     rune // current rune, 0 at end of input
	eof    bool
	line   int
	column int
}

// NewLexer creates a lexer positioned at the first rune of input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize drains the lexer. The returned slice always ends with a TokenEOF
// token unless an error is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Tokenize is a convenience wrapper around NewLexer(input).Tokenize()
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

// NextToken returns the next token. Once the end of input is reached every
// further call returns a TokenEOF token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	tok := Token{Position: l.pos, Line: l.line, Column: l.column}

	if l.eof {
		tok.Type = TokenEOF
		return tok, nil
	}

	switch {
	case isLetter(l.ch):
		tok.Value = l.readIdentifier()
		tok.Type = LookupIdent(tok.Value)
		return tok, nil

	case isDigit(l.ch):
		return l.readInteger(tok)

	case l.ch == '"':
		return l.readString(tok)
	}

	ch := l.ch
	l.readChar()

	switch ch {
	case '=':
		if l.match('=') {
			return l.finish(tok, TokenEqual, "=="), nil
		}
		return l.finish(tok, TokenAssign, "="), nil
	case '!':
		if l.match('=') {
			return l.finish(tok, TokenNotEqual, "!="), nil
		}
		return tok, l.errorAt(tok.Line, tok.Column, "unexpected character '!'")
	case '<':
		if l.match('=') {
			return l.finish(tok, TokenLessEq, "<="), nil
		}
		return l.finish(tok, TokenLess, "<"), nil
	case '>':
		if l.match('=') {
			return l.finish(tok, TokenGreaterEq, ">="), nil
		}
		return l.finish(tok, TokenGreater, ">"), nil
	}

	if tt, ok := singleCharTokens[ch]; ok {
		return l.finish(tok, tt, string(ch)), nil
	}

	return tok, l.errorAt(tok.Line, tok.Column, fmt.Sprintf("unexpected character %q", ch))
}

var singleCharTokens = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'(': TokenLeftParen,
	')': TokenRightParen,
	'[': TokenLeftBracket,
	']': TokenRightBracket,
	',': TokenComma,
	';': TokenSemicolon,
	':': TokenColon,
}

func (l *Lexer) finish(tok Token, tt TokenType, value string) Token {
	tok.Type = tt
	tok.Value = value
	return tok
}

// readChar advances to the next rune
func (l *Lexer) readChar() {
	if l.eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.column++

	if l.next >= len(l.input) {
		l.pos = len(l.input)
		l.ch = 0
		l.eof = true
		return
	}

	r, width := utf8.DecodeRuneInString(l.input[l.next:])
	l.pos = l.next
	l.next += width
	l.ch = r
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

// match consumes the current rune if it equals want
func (l *Lexer) match(want rune) bool {
	if l.eof || l.ch != want {
		return false
	}
	l.readChar()
	return true
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.eof && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.eof && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readInteger(tok Token) (Token, error) {
	start := l.pos
	for !l.eof && isDigit(l.ch) {
		l.readChar()
	}
	tok.Type = TokenInteger
	tok.Value = l.input[start:l.pos]

	if _, err := strconv.ParseInt(tok.Value, 10, 64); err != nil {
		return tok, l.errorAt(tok.Line, tok.Column, fmt.Sprintf("integer literal %s out of range", tok.Value))
	}
	return tok, nil
}

// readString scans a double-quoted literal. tok holds the position of the
// opening quote, which is where an unterminated literal is reported.
func (l *Lexer) readString(tok Token) (Token, error) {
	l.readChar() // opening quote

	var sb strings.Builder
	for {
		if l.eof {
			return tok, l.errorAt(tok.Line, tok.Column, "unterminated string literal").
				WithDetail("at_eof", true)
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			line, col := l.line, l.column
			l.readChar()
			if l.eof {
				return tok, l.errorAt(tok.Line, tok.Column, "unterminated string literal").
					WithDetail("at_eof", true)
			}
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				return tok, l.errorAt(line, col, fmt.Sprintf("invalid escape sequence \\%c", l.ch))
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}

	tok.Type = TokenString
	tok.Value = sb.String()
	return tok, nil
}

func (l *Lexer) errorAt(line, column int, message string) *vbserr.Error {
	return vbserr.New(message).
		WithCode(vbserr.CodeLexical).
		WithOperation("tokenize").
		WithPosition(line, column)
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
