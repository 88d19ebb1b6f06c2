// File: interpreter.go
// Title: VibeScript Interpreter
// Description: Executes statements for effect and evaluates expressions for
//              values. Every switch of the current environment is undone by a
//              deferred restore, so scopes unwind on normal completion,
//              return/break/continue and errors alike.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18
//
// Change History:
// - 2026-09-18 v0.1.0: Initial interpreter

package interpreter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/ast"
)

const (
	// DefaultMaxCallDepth bounds recursion
	DefaultMaxCallDepth = 256

	// DefaultMaxSteps bounds the number of executed statements
	DefaultMaxSteps = 1_000_000

	ctxCheckInterval = 64
)

// Options configures the interpreter
type Options struct {
	Logger *vbslog.Logger

	// MaxCallDepth limits nested function calls; 0 selects the default
	MaxCallDepth int

	// MaxSteps limits executed statements; 0 selects the default and a
	// negative value disables the limit
	MaxSteps int
}

// Interpreter executes programs. Each Run starts from a fresh global scope;
// an Interpreter must not be used by several goroutines at once.
type Interpreter struct {
	logger  *vbslog.Logger
	options Options

	ctx    context.Context
	env    *Environment
	inputs map[string]Value
	out    strings.Builder
	depth  int
	steps  int
}

type completionKind int

const (
	completionNormal completionKind = iota
	completionReturn
	completionBreak
	completionContinue
)

// completion is the control-flow outcome of a statement
type completion struct {
	kind  completionKind
	value Value // set for completionReturn
}

var normal = completion{kind: completionNormal}

// New creates an interpreter
func New(opts Options) *Interpreter {
	if opts.Logger == nil {
		opts.Logger = vbslog.GetDefault()
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}

	return &Interpreter{
		logger:  opts.Logger.WithField("component", "vibe-interpreter"),
		options: opts,
	}
}

// Run executes program with the given input bindings
func (in *Interpreter) Run(ctx context.Context, program *ast.Program, inputs map[string]Value) *Result {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	in.ctx = ctx
	in.env = NewEnvironment(nil)
	in.inputs = inputs
	in.out.Reset()
	in.depth = 0
	in.steps = 0

	err := in.runProgram(program)

	result := &Result{
		Output:   in.out.String(),
		Status:   StatusCompleted,
		Steps:    in.steps,
		Duration: time.Since(start),
	}

	var req *InputRequest
	switch {
	case err == nil:
	case errors.As(err, &req):
		result.Status = StatusNeedsInput
		result.PendingInput = req.Name
	default:
		result.Status = StatusFailed
		result.Err = vbserr.As(err)
	}

	in.logger.Debug("Run finished", vbslog.Fields{
		"status":      result.Status.String(),
		"steps":       result.Steps,
		"duration_ms": float64(result.Duration.Microseconds()) / 1000,
	})

	return result
}

func (in *Interpreter) runProgram(program *ast.Program) error {
	for _, stmt := range program.Statements {
		c, err := in.exec(stmt)
		if err != nil {
			return err
		}
		// slay, and_i_oop or as_if reaching the top level ends the program
		// normally, the same way for all three
		if c.kind != completionNormal {
			return nil
		}
	}
	return nil
}

// Statements

func (in *Interpreter) exec(stmt ast.Stmt) (completion, error) {
	if err := in.tick(stmt); err != nil {
		return normal, err
	}

	switch s := stmt.(type) {
	case *ast.PrintStatement:
		v, err := in.eval(s.Value)
		if err != nil {
			return normal, err
		}
		in.out.WriteString(v.String())
		in.out.WriteByte('\n')
		return normal, nil

	case *ast.InputStatement:
		v, ok := in.inputs[s.Name]
		if !ok {
			return normal, &InputRequest{Name: s.Name}
		}
		in.env.Define(s.Name, v)
		return normal, nil

	case *ast.VariableDeclaration:
		v := ZeroValue(s.Type)
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value); err != nil {
				return normal, err
			}
		}
		in.env.Define(s.Name, v)
		return normal, nil

	case *ast.AssignmentStatement:
		v, err := in.eval(s.Value)
		if err != nil {
			return normal, err
		}
		if !in.env.Assign(s.Name, v) {
			return normal, in.runtimeError(s, "undefined variable '%s'", s.Name)
		}
		return normal, nil

	case *ast.IfStatement:
		cond, err := in.eval(s.Condition)
		if err != nil {
			return normal, err
		}
		if Truthy(cond) {
			return in.exec(s.Then)
		}
		if s.Else != nil {
			return in.exec(s.Else)
		}
		return normal, nil

	case *ast.WhileStatement:
		return in.execWhile(s)

	case *ast.ForStatement:
		return in.execFor(s)

	case *ast.FunctionDeclaration:
		in.env.Define(s.Name, &Function{Name: s.Name, Params: s.Params, Body: s.Body, Env: in.env})
		return normal, nil

	case *ast.ReturnStatement:
		var v Value = NullValue
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value); err != nil {
				return normal, err
			}
		}
		return completion{kind: completionReturn, value: v}, nil

	case *ast.BreakStatement:
		return completion{kind: completionBreak}, nil

	case *ast.ContinueStatement:
		return completion{kind: completionContinue}, nil

	case *ast.BlockStatement:
		return in.execBlock(s.Statements, NewEnvironment(in.env))

	case *ast.ExpressionStatement:
		_, err := in.eval(s.Expression)
		return normal, err
	}

	return normal, in.runtimeError(stmt, "unsupported statement %T", stmt)
}

// execBlock runs stmts in env and restores the previous environment on every exit path
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) (completion, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, stmt := range stmts {
		c, err := in.exec(stmt)
		if err != nil || c.kind != completionNormal {
			return c, err
		}
	}
	return normal, nil
}

func (in *Interpreter) execWhile(s *ast.WhileStatement) (completion, error) {
	for {
		cond, err := in.eval(s.Condition)
		if err != nil {
			return normal, err
		}
		if !Truthy(cond) {
			return normal, nil
		}

		c, err := in.exec(s.Body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completionBreak:
			return normal, nil
		case completionReturn:
			return c, nil
		}
	}
}

// execFor runs the initializer in the current scope, then loops. continue
// still runs the update clause.
func (in *Interpreter) execFor(s *ast.ForStatement) (completion, error) {
	c, err := in.exec(s.Init)
	if err != nil || c.kind != completionNormal {
		return c, err
	}

	for {
		cond, err := in.eval(s.Condition)
		if err != nil {
			return normal, err
		}
		if !Truthy(cond) {
			return normal, nil
		}

		c, err := in.exec(s.Body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completionBreak:
			return normal, nil
		case completionReturn:
			return c, nil
		}

		if _, err := in.exec(s.Update); err != nil {
			return normal, err
		}
	}
}

// tick counts a step and enforces the step limit and context cancellation
func (in *Interpreter) tick(node ast.Node) error {
	in.steps++
	if in.options.MaxSteps > 0 && in.steps > in.options.MaxSteps {
		return in.runtimeError(node, "step limit of %d exceeded", in.options.MaxSteps)
	}
	if in.steps%ctxCheckInterval == 1 {
		if err := in.ctx.Err(); err != nil {
			return vbserr.Wrap(err, "execution cancelled").
				WithCode(vbserr.CodeRuntime).
				WithOperation("evaluate")
		}
	}
	return nil
}

// Expressions

func (in *Interpreter) eval(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpression:
		switch e.Kind {
		case ast.LiteralInt:
			return Int(e.Int), nil
		case ast.LiteralString:
			return Str(e.Str), nil
		case ast.LiteralBool:
			return Bool(e.Bool), nil
		default:
			return NullValue, nil
		}

	case *ast.VariableExpression:
		v, ok := in.env.Get(e.Name)
		if !ok {
			return nil, in.runtimeError(e, "undefined variable '%s'", e.Name)
		}
		return v, nil

	case *ast.UnaryExpression:
		return in.evalUnary(e)

	case *ast.BinaryExpression:
		return in.evalBinary(e)

	case *ast.FunctionCallExpression:
		return in.evalCall(e)
	}

	return nil, in.runtimeError(expr, "unsupported expression %T", expr)
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpression) (Value, error) {
	operand, err := in.eval(e.Operand)
	if err != nil {
		return nil, err
	}

	if e.Operator == ast.OpAdd {
		return operand, nil
	}

	switch v := operand.(type) {
	case Int:
		return -v, nil
	case Real:
		return -v, nil
	}
	return nil, in.runtimeError(e, "bad operand type for unary %s: %s", e.Operator, operand.Kind())
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpression) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case ast.OpEqual:
		return Bool(Equal(left, right)), nil
	case ast.OpNotEqual:
		return Bool(!Equal(left, right)), nil
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		return in.compare(e, left, right)
	}

	return in.arithmetic(e, left, right)
}

func (in *Interpreter) compare(e *ast.BinaryExpression, left, right Value) (Value, error) {
	var c int
	if x, y, ok := numericPair(left, right); ok {
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	} else {
		ls, lok := left.(Str)
		rs, rok := right.(Str)
		if !lok || !rok {
			return nil, in.runtimeError(e, "cannot compare %s and %s with '%s'", left.Kind(), right.Kind(), e.Operator)
		}
		c = strings.Compare(string(ls), string(rs))
	}

	switch e.Operator {
	case ast.OpLess:
		return Bool(c < 0), nil
	case ast.OpLessEq:
		return Bool(c <= 0), nil
	case ast.OpGreater:
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func (in *Interpreter) arithmetic(e *ast.BinaryExpression, left, right Value) (Value, error) {
	op := e.Operator

	if op == ast.OpDivide || op == ast.OpModulo {
		if y, ok := toFloat(right); ok && y == 0 {
			return nil, in.runtimeError(e, "division by zero")
		}
	}

	if op == ast.OpAdd {
		_, ls := left.(Str)
		_, rs := right.(Str)
		if ls || rs {
			return Str(left.String() + right.String()), nil
		}
	}

	li, lInt := left.(Int)
	ri, rInt := right.(Int)
	if lInt && rInt {
		switch op {
		case ast.OpAdd:
			return li + ri, nil
		case ast.OpSubtract:
			return li - ri, nil
		case ast.OpMultiply:
			return li * ri, nil
		case ast.OpDivide:
			return Real(float64(li) / float64(ri)), nil
		case ast.OpModulo:
			m := li % ri
			if m != 0 && (m < 0) != (ri < 0) {
				m += ri
			}
			return m, nil
		}
	}

	x, y, ok := numericPair(left, right)
	if !ok {
		return nil, in.runtimeError(e, "unsupported operand types for '%s': %s and %s", op, left.Kind(), right.Kind())
	}

	switch op {
	case ast.OpAdd:
		return Real(x + y), nil
	case ast.OpSubtract:
		return Real(x - y), nil
	case ast.OpMultiply:
		return Real(x * y), nil
	case ast.OpDivide:
		return Real(x / y), nil
	case ast.OpModulo:
		m := math.Mod(x, y)
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return Real(m), nil
	}

	return nil, in.runtimeError(e, "unknown operator '%s'", op)
}

func (in *Interpreter) evalCall(e *ast.FunctionCallExpression) (Value, error) {
	callee, _ := in.env.Get(e.Name)
	fn, ok := callee.(*Function)
	if !ok {
		return nil, in.runtimeError(e, "'%s' is not a function", e.Name)
	}

	args := make([]Value, len(e.Arguments))
	for i, arg := range e.Arguments {
		v, err := in.eval(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return in.call(e, fn, args)
}

// call binds args in a fresh scope under the closure's environment and runs
// the body. Missing arguments are null, extra arguments are dropped. A break
// or continue that reaches the function boundary ends the call.
func (in *Interpreter) call(node ast.Node, fn *Function, args []Value) (Value, error) {
	if in.depth >= in.options.MaxCallDepth {
		return nil, in.runtimeError(node, "maximum call depth of %d exceeded", in.options.MaxCallDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	if in.logger.IsLevelEnabled(vbslog.LevelTrace) {
		in.logger.Trace("Function call", vbslog.Fields{"function": fn.Name, "args": len(args), "depth": in.depth})
	}

	callEnv := NewEnvironment(fn.Env)
	for i, param := range fn.Params {
		if i < len(args) {
			callEnv.Define(param, args[i])
		} else {
			callEnv.Define(param, NullValue)
		}
	}

	prev := in.env
	in.env = callEnv
	defer func() { in.env = prev }()

	c, err := in.exec(fn.Body)
	if err != nil {
		return nil, err
	}
	if c.kind == completionReturn && c.value != nil {
		return c.value, nil
	}
	return NullValue, nil
}

func (in *Interpreter) runtimeError(node ast.Node, format string, args ...interface{}) *vbserr.Error {
	err := vbserr.New(fmt.Sprintf(format, args...)).
		WithCode(vbserr.CodeRuntime).
		WithOperation("evaluate")
	if node != nil {
		if pos := node.Position(); pos.Line > 0 {
			err = err.WithPosition(pos.Line, pos.Column)
		}
	}
	return err
}
