// File: parser_test.go
// Title: VibeScript Parser Unit Tests
// Description: Tests for statement and expression parsing, precedence,
//              assignment disambiguation and syntax errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-16
// Modified: 2026-09-16
//
// Change History:
// - 2026-09-16 v0.1.0: Initial test suite

package parser

import (
	"errors"
	"strings"
	"testing"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/ast"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(Options{Logger: vbslog.Discard()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := newTestParser(t).Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return program
}

func TestParser_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		dump  string
	}{
		{
			name:  "Declaration with initializer",
			input: "lit x = 5;",
			dump: `Program
  VariableDeclaration lit x
    LiteralExpression 5
`,
		},
		{
			name:  "Declaration without initializer",
			input: "stan xs;",
			dump: `Program
  VariableDeclaration stan xs
`,
		},
		{
			name:  "Print and input",
			input: `vibe_check name; spill_the_tea "hi " + name;`,
			dump: `Program
  InputStatement name
  PrintStatement
    BinaryExpression +
      LiteralExpression "hi "
      VariableExpression name
`,
		},
		{
			name:  "If with else",
			input: "no_cap (x == 1) spill_the_tea this_slaps; cap spill_the_tea im_dead;",
			dump: `Program
  IfStatement
    BinaryExpression ==
      VariableExpression x
      LiteralExpression 1
    PrintStatement
      LiteralExpression this_slaps
    PrintStatement
      LiteralExpression im_dead
`,
		},
		{
			name:  "While with block",
			input: "lowkey (i < 3) lets_go i = i + 1; yeet",
			dump: `Program
  WhileStatement
    BinaryExpression <
      VariableExpression i
      LiteralExpression 3
    BlockStatement
      AssignmentStatement i
        BinaryExpression +
          VariableExpression i
          LiteralExpression 1
`,
		},
		{
			name:  "For with assignment update",
			input: "highkey (lit i = 0; i < 2; i = i + 1) and_i_oop;",
			dump: `Program
  ForStatement
    VariableDeclaration lit i
      LiteralExpression 0
    BinaryExpression <
      VariableExpression i
      LiteralExpression 2
    AssignmentStatement i
      BinaryExpression +
        VariableExpression i
        LiteralExpression 1
    BreakStatement
`,
		},
		{
			name:  "For with expression update",
			input: "highkey (i = 0; i < 2; tick()) as_if;",
			dump: `Program
  ForStatement
    AssignmentStatement i
      LiteralExpression 0
    BinaryExpression <
      VariableExpression i
      LiteralExpression 2
    ExpressionStatement
      FunctionCallExpression tick/0
    ContinueStatement
`,
		},
		{
			name:  "Function declaration and call",
			input: "rizz_up add(a, b) lets_go slay a + b; yeet spill_the_tea add(1, 2);",
			dump: `Program
  FunctionDeclaration add(a, b)
    BlockStatement
      ReturnStatement
        BinaryExpression +
          VariableExpression a
          VariableExpression b
  PrintStatement
    FunctionCallExpression add/2
      LiteralExpression 1
      LiteralExpression 2
`,
		},
		{
			name:  "Bare return and empty function",
			input: "rizz_up noop() lets_go slay; yeet",
			dump: `Program
  FunctionDeclaration noop()
    BlockStatement
      ReturnStatement
`,
		},
		{
			name:  "Expression statement",
			input: "greet(ghost);",
			dump: `Program
  ExpressionStatement
    FunctionCallExpression greet/1
      LiteralExpression ghost
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.input)
			if got := ast.Dump(program); got != tt.dump {
				t.Errorf("Dump() =\n%s\nwant\n%s", got, tt.dump)
			}
		})
	}
}

func TestParser_Precedence(t *testing.T) {
	tests := []struct {
		input string
		dump  string
	}{
		{
			input: "1 + 2 * 3;",
			dump: `Program
  ExpressionStatement
    BinaryExpression +
      LiteralExpression 1
      BinaryExpression *
        LiteralExpression 2
        LiteralExpression 3
`,
		},
		{
			input: "10 - 4 - 3;",
			dump: `Program
  ExpressionStatement
    BinaryExpression -
      BinaryExpression -
        LiteralExpression 10
        LiteralExpression 4
      LiteralExpression 3
`,
		},
		{
			input: "-(1 + 2) % 2 == 1 < 2;",
			dump: `Program
  ExpressionStatement
    BinaryExpression ==
      BinaryExpression %
        UnaryExpression -
          BinaryExpression +
            LiteralExpression 1
            LiteralExpression 2
        LiteralExpression 2
      BinaryExpression <
        LiteralExpression 1
        LiteralExpression 2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ast.Dump(mustParse(t, tt.input)); got != tt.dump {
				t.Errorf("Dump() =\n%s\nwant\n%s", got, tt.dump)
			}
		})
	}
}

// A comparison whose characters contain '=' must not be mistaken for an assignment.
func TestParser_AssignmentDisambiguation(t *testing.T) {
	program := mustParse(t, "x == 1; x = y >= 2; x <= 3;")

	if _, ok := program.Statements[0].(*ast.ExpressionStatement); !ok {
		t.Errorf("statement 0 = %T, want *ast.ExpressionStatement", program.Statements[0])
	}
	assign, ok := program.Statements[1].(*ast.AssignmentStatement)
	if !ok {
		t.Fatalf("statement 1 = %T, want *ast.AssignmentStatement", program.Statements[1])
	}
	if bin, ok := assign.Value.(*ast.BinaryExpression); !ok || bin.Operator != ast.OpGreaterEq {
		t.Errorf("assignment value = %s", ast.Dump(assign.Value))
	}
	if _, ok := program.Statements[2].(*ast.ExpressionStatement); !ok {
		t.Errorf("statement 2 = %T, want *ast.ExpressionStatement", program.Statements[2])
	}
}

func TestParser_Positions(t *testing.T) {
	program := mustParse(t, "lit x = 1;\n  spill_the_tea x;")

	stmt := program.Statements[1].(*ast.PrintStatement)
	if pos := stmt.Position(); pos.Line != 2 || pos.Column != 3 {
		t.Errorf("print position = %d:%d, want 2:3", pos.Line, pos.Column)
	}
	if pos := stmt.Value.Position(); pos.Line != 2 || pos.Column != 17 {
		t.Errorf("operand position = %d:%d, want 2:17", pos.Line, pos.Column)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantMsg    string
		wantLine   int
		wantColumn int
		incomplete bool
	}{
		{"missing semicolon", "lit x = 5", "expected SEMICOLON, got EOF", 1, 10, true},
		{"missing identifier", "lit = 5;", "expected IDENTIFIER, got ASSIGN", 1, 5, false},
		{"unclosed block", "lets_go spill_the_tea 1;", "expected YEET, got EOF", 1, 25, true},
		{"unclosed paren", "spill_the_tea (1 + 2;", "expected RPAREN, got SEMICOLON", 1, 21, false},
		{"stray end", "yeet", "expected expression, got YEET", 1, 1, false},
		{"function without block", "rizz_up f() slay 1;", "expected LETS_GO, got SLAY", 1, 13, false},
		{"reserved keyword", "rent_free x;", "expected expression, got RENT_FREE", 1, 1, false},
		{"brackets are not expressions", "lit x = [1];", "expected expression, got LBRACKET", 1, 9, false},
		{"if without parens", "no_cap x spill_the_tea 1;", "expected LPAREN, got IDENTIFIER", 1, 8, false},
		{"lexical error surfaces", "spill_the_tea #;", "unexpected character '#'", 1, 15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := newTestParser(t).Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got program:\n%s", ast.Dump(program))
			}
			if program != nil {
				t.Error("failed parse should not return a program")
			}

			var vErr *vbserr.Error
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T", err)
			}
			if !strings.Contains(vErr.Message(), tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", vErr.Message(), tt.wantMsg)
			}
			if vErr.Line() != tt.wantLine || vErr.Column() != tt.wantColumn {
				t.Errorf("position = %d:%d, want %d:%d", vErr.Line(), vErr.Column(), tt.wantLine, tt.wantColumn)
			}
			if IsIncomplete(err) != tt.incomplete {
				t.Errorf("IsIncomplete() = %v, want %v", IsIncomplete(err), tt.incomplete)
			}
		})
	}
}

func TestParser_ErrorCodes(t *testing.T) {
	_, err := Parse("lit x = ;")
	if !vbserr.HasCode(err, vbserr.CodeSyntax) {
		t.Errorf("syntax error code missing: %v", err)
	}

	_, err = Parse(`spill_the_tea "open`)
	if !vbserr.HasCode(err, vbserr.CodeLexical) {
		t.Errorf("lexical error code missing: %v", err)
	}
}

func TestParser_MaxSourceLength(t *testing.T) {
	p, err := New(Options{Logger: vbslog.Discard(), MaxSourceLength: 8})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Parse("spill_the_tea 1;"); !vbserr.HasCode(err, vbserr.CodeInvalidInput) {
		t.Errorf("Parse() error = %v, want INVALID_INPUT", err)
	}
	if _, err := New(Options{MaxSourceLength: -1}); err == nil {
		t.Error("New() should reject a negative limit")
	}
}

func TestParser_Reuse(t *testing.T) {
	p := newTestParser(t)
	if _, err := p.Parse("lit x = "); err == nil {
		t.Fatal("expected error")
	}
	program, err := p.Parse("spill_the_tea 1;")
	if err != nil {
		t.Fatalf("second Parse() error = %v", err)
	}
	if len(program.Statements) != 1 {
		t.Errorf("got %d statements, want 1", len(program.Statements))
	}
}

func TestParser_Deterministic(t *testing.T) {
	src := "rizz_up f(n) lets_go no_cap (n <= 1) slay 1; slay n * f(n - 1); yeet spill_the_tea f(5);"
	first := ast.Dump(mustParse(t, src))
	second := ast.Dump(mustParse(t, src))
	if first != second {
		t.Error("repeated parses differ")
	}
	if ast.Count(mustParse(t, src)) < 10 {
		t.Error("Count() too small for a recursive function")
	}
}
