// File: parser.go
// Title: VibeScript Recursive Descent Parser
// Description: Builds an ast.Program from the token stream. Uses the current
//              token for dispatch and peeks at most one token further to tell
//              an assignment (IDENT '=') from an expression statement. The
//              first error aborts the parse.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-16
// Modified: 2026-09-16
//
// Change History:
// - 2026-09-16 v0.1.0: Initial parser implementation

package parser

import (
	"errors"
	"fmt"
	"strconv"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/ast"
)

// DefaultMaxSourceLength is the source size limit applied when Options leaves it unset
const DefaultMaxSourceLength = 1 << 20

// Parser implements recursive descent parsing for VibeScript. A Parser may be
// reused for several sources but is not safe for concurrent use.
type Parser struct {
	lexer   *Lexer
	current Token  // Current token
	peeked  *Token // Token after current, if already scanned
	logger  *vbslog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger          *vbslog.Logger
	MaxSourceLength int
}

// New creates a new parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.Logger == nil {
		opts.Logger = vbslog.GetDefault()
	}
	if opts.MaxSourceLength == 0 {
		opts.MaxSourceLength = DefaultMaxSourceLength
	}
	if opts.MaxSourceLength < 0 {
		return nil, fmt.Errorf("invalid max source length: %d", opts.MaxSourceLength)
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "vibe-parser"),
		options: opts,
	}, nil
}

// Parse parses src with a parser using default options
func Parse(src string) (*ast.Program, error) {
	p, err := New(Options{})
	if err != nil {
		return nil, err
	}
	return p.Parse(src)
}

// Parse parses a complete program
func (p *Parser) Parse(src string) (*ast.Program, error) {
	if len(src) > p.options.MaxSourceLength {
		return nil, vbserr.Newf("source exceeds maximum length: %d > %d", len(src), p.options.MaxSourceLength).
			WithCode(vbserr.CodeInvalidInput).
			WithOperation("parse")
	}

	p.lexer = NewLexer(src)
	p.peeked = nil
	if err := p.advance(); err != nil {
		return nil, err
	}

	p.logger.Debug("Starting VibeScript parsing", vbslog.Fields{"length": len(src)})

	program := &ast.Program{Pos: p.currentPosition()}
	for p.current.Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			p.logger.Debug("VibeScript parsing failed", vbslog.Err(err))
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	p.logger.Debug("VibeScript parsing completed", vbslog.Fields{
		"statements": len(program.Statements),
	})

	return program, nil
}

// IsIncomplete reports whether err was caused by the source ending early,
// e.g. an open block or string literal. Such input may become valid when
// more text is appended.
func IsIncomplete(err error) bool {
	var vErr *vbserr.Error
	if !errors.As(err, &vErr) {
		return false
	}
	v, _ := vErr.Detail("at_eof")
	atEOF, ok := v.(bool)
	return ok && atEOF
}

// Statements

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.current.Type {
	case TokenPrint:
		return p.parsePrintStatement()
	case TokenInput:
		return p.parseInputStatement()
	case TokenTypeInt, TokenTypeString, TokenTypeBool, TokenTypeList:
		return p.parseVariableDeclaration()
	case TokenIf:
		return p.parseIfStatement()
	case TokenWhile:
		return p.parseWhileStatement()
	case TokenFor:
		return p.parseForStatement()
	case TokenFunction:
		return p.parseFunctionDeclaration()
	case TokenReturn:
		return p.parseReturnStatement()
	case TokenBreak:
		pos := p.currentPosition()
		if err := p.skipThen(TokenSemicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStatement{Pos: pos}, nil
	case TokenContinue:
		pos := p.currentPosition()
		if err := p.skipThen(TokenSemicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStatement{Pos: pos}, nil
	case TokenBegin:
		return p.parseBlock()
	case TokenIdentifier:
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.Type == TokenAssign {
			stmt, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}
			return stmt, nil
		}
	}

	return p.parseExpressionStatement()
}

// skipThen consumes the current keyword and then expects tt
func (p *Parser) skipThen(tt TokenType) error {
	if err := p.advance(); err != nil {
		return err
	}
	_, err := p.expect(tt)
	return err
}

func (p *Parser) parsePrintStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.PrintStatement{Value: value, Pos: pos}, nil
}

func (p *Parser) parseInputStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.InputStatement{Name: name.Value, Pos: pos}, nil
}

func (p *Parser) parseVariableDeclaration() (ast.Stmt, error) {
	pos := p.currentPosition()
	varType := ast.VarType(p.current.Value)
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	decl := &ast.VariableDeclaration{Type: varType, Name: name.Value, Pos: pos}
	if p.current.Type == TokenAssign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if decl.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseAssignment parses IDENT '=' expr without the terminating semicolon,
// so the for-statement can reuse it as an update clause.
func (p *Parser) parseAssignment() (*ast.AssignmentStatement, error) {
	pos := p.currentPosition()
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.AssignmentStatement{Name: name.Value, Value: value, Pos: pos}, nil
}

func (p *Parser) parseIfStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Condition: cond, Then: then, Pos: pos}
	if p.current.Type == TokenElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if stmt.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Condition: cond, Body: body, Pos: pos}, nil
}

// parseCondition parses '(' expr ')'
func (p *Parser) parseCondition() (ast.Expr, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseForStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	// The initializer is a full statement and consumes its own ';'
	init, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	update, err := p.parseForUpdate()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.ForStatement{Init: init, Condition: cond, Update: update, Body: body, Pos: pos}, nil
}

func (p *Parser) parseForUpdate() (ast.Stmt, error) {
	if p.current.Type == TokenIdentifier {
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.Type == TokenAssign {
			return p.parseAssignment()
		}
	}

	pos := p.currentPosition()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr, Pos: pos}, nil
}

func (p *Parser) parseFunctionDeclaration() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	var params []string
	if p.current.Type != TokenRightParen {
		for {
			param, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Value)
			if p.current.Type != TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}

	if p.current.Type != TokenBegin {
		return nil, p.parseError(fmt.Sprintf("expected %s, got %s", TokenBegin, p.current.Type))
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclaration{Name: name.Value, Params: params, Body: body, Pos: pos}, nil
}

func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	if err := p.advance(); err != nil {
		return nil, err
	}

	stmt := &ast.ReturnStatement{Pos: pos}
	if p.current.Type != TokenSemicolon {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	pos := p.currentPosition()
	if _, err := p.expect(TokenBegin); err != nil {
		return nil, err
	}

	block := &ast.BlockStatement{Pos: pos}
	for p.current.Type != TokenEnd && p.current.Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	pos := p.currentPosition()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr, Pos: pos}, nil
}

// Expressions, lowest precedence first

var binaryOperators = map[TokenType]ast.Operator{
	TokenPlus:      ast.OpAdd,
	TokenMinus:     ast.OpSubtract,
	TokenStar:      ast.OpMultiply,
	TokenSlash:     ast.OpDivide,
	TokenPercent:   ast.OpModulo,
	TokenEqual:     ast.OpEqual,
	TokenNotEqual:  ast.OpNotEqual,
	TokenLess:      ast.OpLess,
	TokenLessEq:    ast.OpLessEq,
	TokenGreater:   ast.OpGreater,
	TokenGreaterEq: ast.OpGreaterEq,
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseEqualityExpression()
}

func (p *Parser) parseEqualityExpression() (ast.Expr, error) {
	return p.parseBinary(p.parseComparisonExpression, TokenEqual, TokenNotEqual)
}

func (p *Parser) parseComparisonExpression() (ast.Expr, error) {
	return p.parseBinary(p.parseAdditiveExpression, TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq)
}

func (p *Parser) parseAdditiveExpression() (ast.Expr, error) {
	return p.parseBinary(p.parseMultiplicativeExpression, TokenPlus, TokenMinus)
}

func (p *Parser) parseMultiplicativeExpression() (ast.Expr, error) {
	return p.parseBinary(p.parseUnaryExpression, TokenStar, TokenSlash, TokenPercent)
}

// parseBinary parses a left-associative chain of operand (op operand)*
func (p *Parser) parseBinary(operand func() (ast.Expr, error), ops ...TokenType) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.currentIs(ops...) {
		pos := p.currentPosition()
		op := binaryOperators[p.current.Type]
		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseUnaryExpression() (ast.Expr, error) {
	if p.currentIs(TokenPlus, TokenMinus) {
		pos := p.currentPosition()
		op := binaryOperators[p.current.Type]
		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: op, Operand: operand, Pos: pos}, nil
	}

	return p.parsePrimaryExpression()
}

func (p *Parser) parsePrimaryExpression() (ast.Expr, error) {
	pos := p.currentPosition()
	tok := p.current

	switch tok.Type {
	case TokenInteger:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.parseError(fmt.Sprintf("invalid integer literal %s", tok.Value))
		}
		return p.literal(&ast.LiteralExpression{Kind: ast.LiteralInt, Int: n, Pos: pos})

	case TokenString:
		return p.literal(&ast.LiteralExpression{Kind: ast.LiteralString, Str: tok.Value, Pos: pos})

	case TokenTrue, TokenFalse:
		return p.literal(&ast.LiteralExpression{Kind: ast.LiteralBool, Bool: tok.Type == TokenTrue, Pos: pos})

	case TokenNull:
		return p.literal(&ast.LiteralExpression{Kind: ast.LiteralNull, Pos: pos})

	case TokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.Type == TokenLeftParen {
			return p.parseFunctionCall(tok.Value, pos)
		}
		return &ast.VariableExpression{Name: tok.Value, Pos: pos}, nil

	case TokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.parseError(fmt.Sprintf("expected expression, got %s", tok.Type))
}

func (p *Parser) literal(lit *ast.LiteralExpression) (ast.Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseFunctionCall parses '(' args? ')' after the callee name
func (p *Parser) parseFunctionCall(name string, pos ast.Position) (ast.Expr, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	call := &ast.FunctionCallExpression{Name: name, Pos: pos}
	if p.current.Type != TokenRightParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Arguments = append(call.Arguments, arg)
			if p.current.Type != TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return call, nil
}

// Utility methods

// advance moves to the next token
func (p *Parser) advance() error {
	if p.peeked != nil {
		p.current = *p.peeked
		p.peeked = nil
		return nil
	}

	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

// peek returns the token after the current one without consuming it
func (p *Parser) peek() (Token, error) {
	if p.peeked == nil {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return Token{}, err
		}
		p.peeked = &tok
	}
	return *p.peeked, nil
}

// expect consumes the current token if it has type tt
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.current
	if tok.Type != tt {
		return tok, p.parseError(fmt.Sprintf("expected %s, got %s", tt, tok.Type))
	}
	if err := p.advance(); err != nil {
		return tok, err
	}
	return tok, nil
}

func (p *Parser) currentIs(types ...TokenType) bool {
	for _, tt := range types {
		if p.current.Type == tt {
			return true
		}
	}
	return false
}

// currentPosition returns the current AST position
func (p *Parser) currentPosition() ast.Position {
	return ast.Position{
		Line:   p.current.Line,
		Column: p.current.Column,
		Offset: p.current.Position,
	}
}

// parseError creates a syntax error at the current token
func (p *Parser) parseError(message string) error {
	err := vbserr.New(message).
		WithCode(vbserr.CodeSyntax).
		WithOperation("parse").
		WithPosition(p.current.Line, p.current.Column).
		WithDetail("token", p.current.Type.String())
	if p.current.Type == TokenEOF {
		err = err.WithDetail("at_eof", true)
	}
	return err
}
