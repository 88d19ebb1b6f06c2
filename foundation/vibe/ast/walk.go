// File: walk.go
// Title: AST Traversal and Dump
// Description: Depth-first traversal over the closed node set and an indented,
//              deterministic text dump used by `vibe parse` and the parse API.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-17
// Modified: 2026-09-17
//
// Change History:
// - 2026-09-17 v0.1.0: Initial traversal and dump

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Children returns the direct child nodes of n in source order
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			add(s)
		}
	case *PrintStatement:
		add(n.Value)
	case *VariableDeclaration:
		if n.Value != nil {
			add(n.Value)
		}
	case *AssignmentStatement:
		add(n.Value)
	case *IfStatement:
		add(n.Condition, n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *WhileStatement:
		add(n.Condition, n.Body)
	case *ForStatement:
		add(n.Init, n.Condition, n.Update, n.Body)
	case *FunctionDeclaration:
		if n.Body != nil {
			add(n.Body)
		}
	case *ReturnStatement:
		if n.Value != nil {
			add(n.Value)
		}
	case *BlockStatement:
		for _, s := range n.Statements {
			add(s)
		}
	case *ExpressionStatement:
		add(n.Expression)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *UnaryExpression:
		add(n.Operand)
	case *FunctionCallExpression:
		for _, a := range n.Arguments {
			add(a)
		}
	case *InputStatement, *BreakStatement, *ContinueStatement,
		*VariableExpression, *LiteralExpression:
	}
	return out
}

// Inspect traverses the tree rooted at n depth-first. If f returns false the
// children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Count returns the number of nodes in the tree rooted at n
func Count(n Node) int {
	count := 0
	Inspect(n, func(Node) bool {
		count++
		return true
	})
	return count
}

// Dump renders the tree rooted at n, one node per line, two spaces of
// indentation per level.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(label(n))
	sb.WriteByte('\n')
	for _, c := range Children(n) {
		dump(sb, c, depth+1)
	}
}

func label(n Node) string {
	switch n := n.(type) {
	case *Program:
		return "Program"
	case *PrintStatement:
		return "PrintStatement"
	case *InputStatement:
		return "InputStatement " + n.Name
	case *VariableDeclaration:
		return fmt.Sprintf("VariableDeclaration %s %s", n.Type, n.Name)
	case *AssignmentStatement:
		return "AssignmentStatement " + n.Name
	case *IfStatement:
		return "IfStatement"
	case *WhileStatement:
		return "WhileStatement"
	case *ForStatement:
		return "ForStatement"
	case *FunctionDeclaration:
		return fmt.Sprintf("FunctionDeclaration %s(%s)", n.Name, strings.Join(n.Params, ", "))
	case *ReturnStatement:
		return "ReturnStatement"
	case *BreakStatement:
		return "BreakStatement"
	case *ContinueStatement:
		return "ContinueStatement"
	case *BlockStatement:
		return "BlockStatement"
	case *ExpressionStatement:
		return "ExpressionStatement"
	case *BinaryExpression:
		return "BinaryExpression " + string(n.Operator)
	case *UnaryExpression:
		return "UnaryExpression " + string(n.Operator)
	case *VariableExpression:
		return "VariableExpression " + n.Name
	case *LiteralExpression:
		return "LiteralExpression " + n.Text()
	case *FunctionCallExpression:
		return fmt.Sprintf("FunctionCallExpression %s/%d", n.Name, len(n.Arguments))
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Text returns the literal as it would be written in source
func (n *LiteralExpression) Text() string {
	switch n.Kind {
	case LiteralInt:
		return strconv.FormatInt(n.Int, 10)
	case LiteralString:
		return strconv.Quote(n.Str)
	case LiteralBool:
		if n.Bool {
			return "this_slaps"
		}
		return "im_dead"
	default:
		return "ghost"
	}
}
