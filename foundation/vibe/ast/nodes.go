// File: nodes.go
// Title: VibeScript AST Node Definitions
// Description: The closed set of syntax tree nodes built by the parser.
//              Statement and expression nodes implement unexported marker
//              methods, so no type outside this package can join the set and
//              consumers can switch over the node types exhaustively.
//              Trees are never mutated after parsing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-17
// Modified: 2026-09-17
//
// Change History:
// - 2026-09-17 v0.1.0: Initial AST node definitions

package ast

// Node represents the base interface for all AST nodes
type Node interface {
	// Position returns the source position of the node
	Position() Position
	node()
}

// Stmt is a node executed for effect
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node evaluated to a value
type Expr interface {
	Node
	exprNode()
}

// Position represents a position in the source code
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
	Offset int // Byte offset (0-based)
}

// VarType is the type keyword of a declaration
type VarType string

const (
	TypeInt    VarType = "lit"
	TypeString VarType = "tea"
	TypeBool   VarType = "mood"
	TypeList   VarType = "stan"
)

// Operator is a unary or binary operator
type Operator string

const (
	OpAdd       Operator = "+"
	OpSubtract  Operator = "-"
	OpMultiply  Operator = "*"
	OpDivide    Operator = "/"
	OpModulo    Operator = "%"
	OpEqual     Operator = "=="
	OpNotEqual  Operator = "!="
	OpLess      Operator = "<"
	OpLessEq    Operator = "<="
	OpGreater   Operator = ">"
	OpGreaterEq Operator = ">="
)

// LiteralKind tags the payload of a LiteralExpression
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Program is the root of a parsed source text
type Program struct {
	Statements []Stmt
	Pos        Position
}

// PrintStatement: spill_the_tea expr ;
type PrintStatement struct {
	Value Expr
	Pos   Position
}

// InputStatement: vibe_check name ;
type InputStatement struct {
	Name string
	Pos  Position
}

// VariableDeclaration: lit|tea|mood|stan name (= expr)? ;
type VariableDeclaration struct {
	Type  VarType
	Name  string
	Value Expr // nil without initializer
	Pos   Position
}

// AssignmentStatement: name = expr ;
type AssignmentStatement struct {
	Name  string
	Value Expr
	Pos   Position
}

// IfStatement: no_cap ( cond ) stmt (cap stmt)?
type IfStatement struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil without cap branch
	Pos       Position
}

// WhileStatement: lowkey ( cond ) stmt
type WhileStatement struct {
	Condition Expr
	Body      Stmt
	Pos       Position
}

// ForStatement: highkey ( init cond ; update ) stmt
type ForStatement struct {
	Init      Stmt
	Condition Expr
	Update    Stmt // *AssignmentStatement or *ExpressionStatement
	Body      Stmt
	Pos       Position
}

// FunctionDeclaration: rizz_up name ( params ) block
type FunctionDeclaration struct {
	Name   string
	Params []string
	Body   *BlockStatement
	Pos    Position
}

// ReturnStatement: slay expr? ;
type ReturnStatement struct {
	Value Expr // nil for a bare slay
	Pos   Position
}

// BreakStatement: and_i_oop ;
type BreakStatement struct {
	Pos Position
}

// ContinueStatement: as_if ;
type ContinueStatement struct {
	Pos Position
}

// BlockStatement: lets_go stmt* yeet
type BlockStatement struct {
	Statements []Stmt
	Pos        Position
}

// ExpressionStatement is an expression evaluated for its side effects
type ExpressionStatement struct {
	Expression Expr
	Pos        Position
}

// BinaryExpression applies Operator to Left and Right
type BinaryExpression struct {
	Left     Expr
	Operator Operator
	Right    Expr
	Pos      Position
}

// UnaryExpression applies + or - to Operand
type UnaryExpression struct {
	Operator Operator
	Operand  Expr
	Pos      Position
}

// VariableExpression reads a variable
type VariableExpression struct {
	Name string
	Pos  Position
}

// LiteralExpression is an integer, string, boolean or null literal
type LiteralExpression struct {
	Kind LiteralKind
	Int  int64
	Str  string
	Bool bool
	Pos  Position
}

// FunctionCallExpression calls the function bound to Name
type FunctionCallExpression struct {
	Name      string
	Arguments []Expr
	Pos       Position
}

func (n *Program) Position() Position                { return n.Pos }
func (n *PrintStatement) Position() Position         { return n.Pos }
func (n *InputStatement) Position() Position         { return n.Pos }
func (n *VariableDeclaration) Position() Position    { return n.Pos }
func (n *AssignmentStatement) Position() Position    { return n.Pos }
func (n *IfStatement) Position() Position            { return n.Pos }
func (n *WhileStatement) Position() Position         { return n.Pos }
func (n *ForStatement) Position() Position           { return n.Pos }
func (n *FunctionDeclaration) Position() Position    { return n.Pos }
func (n *ReturnStatement) Position() Position        { return n.Pos }
func (n *BreakStatement) Position() Position         { return n.Pos }
func (n *ContinueStatement) Position() Position      { return n.Pos }
func (n *BlockStatement) Position() Position         { return n.Pos }
func (n *ExpressionStatement) Position() Position    { return n.Pos }
func (n *BinaryExpression) Position() Position       { return n.Pos }
func (n *UnaryExpression) Position() Position        { return n.Pos }
func (n *VariableExpression) Position() Position     { return n.Pos }
func (n *LiteralExpression) Position() Position      { return n.Pos }
func (n *FunctionCallExpression) Position() Position { return n.Pos }

func (*Program) node()                {}
func (*PrintStatement) node()         {}
func (*InputStatement) node()         {}
func (*VariableDeclaration) node()    {}
func (*AssignmentStatement) node()    {}
func (*IfStatement) node()            {}
func (*WhileStatement) node()         {}
func (*ForStatement) node()           {}
func (*FunctionDeclaration) node()    {}
func (*ReturnStatement) node()        {}
func (*BreakStatement) node()         {}
func (*ContinueStatement) node()      {}
func (*BlockStatement) node()         {}
func (*ExpressionStatement) node()    {}
func (*BinaryExpression) node()       {}
func (*UnaryExpression) node()        {}
func (*VariableExpression) node()     {}
func (*LiteralExpression) node()      {}
func (*FunctionCallExpression) node() {}

func (*PrintStatement) stmtNode()      {}
func (*InputStatement) stmtNode()      {}
func (*VariableDeclaration) stmtNode() {}
func (*AssignmentStatement) stmtNode() {}
func (*IfStatement) stmtNode()         {}
func (*WhileStatement) stmtNode()      {}
func (*ForStatement) stmtNode()        {}
func (*FunctionDeclaration) stmtNode() {}
func (*ReturnStatement) stmtNode()     {}
func (*BreakStatement) stmtNode()      {}
func (*ContinueStatement) stmtNode()   {}
func (*BlockStatement) stmtNode()      {}
func (*ExpressionStatement) stmtNode() {}

func (*BinaryExpression) exprNode()       {}
func (*UnaryExpression) exprNode()        {}
func (*VariableExpression) exprNode()     {}
func (*LiteralExpression) exprNode()      {}
func (*FunctionCallExpression) exprNode() {}
