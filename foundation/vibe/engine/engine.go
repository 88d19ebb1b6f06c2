// File: engine.go
// Title: VibeScript Engine
// Description: One-call pipeline from source text and raw input bindings to a
//              run Result. Every run gets a fresh interpreter; the optional
//              program cache holds immutable parse trees and is the only state
//              shared between runs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-19
// Modified: 2026-09-19
//
// Change History:
// - 2026-09-19 v0.1.0: Initial engine

package engine

import (
	"context"
	"time"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/ast"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/foundation/vibe/parser"
)

// ProgramCache stores parsed programs keyed by their source text.
// Implementations must be safe for concurrent use.
type ProgramCache interface {
	Get(src string) (*ast.Program, bool)
	Put(src string, program *ast.Program)
}

// Options configures the engine
type Options struct {
	Logger          *vbslog.Logger
	Interpreter     interpreter.Options
	MaxSourceLength int
	Cache           ProgramCache
}

// Engine runs VibeScript programs. It is safe for concurrent use.
type Engine struct {
	logger  *vbslog.Logger
	options Options
}

// Result is the outcome of Run
type Result = interpreter.Result

// New creates an engine
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = vbslog.GetDefault()
	}
	if opts.Interpreter.Logger == nil {
		opts.Interpreter.Logger = opts.Logger
	}

	return &Engine{
		logger:  opts.Logger.WithField("component", "vibe-engine"),
		options: opts,
	}
}

// Tokenize returns the token stream of src
func (e *Engine) Tokenize(src string) ([]parser.Token, error) {
	return parser.Tokenize(src)
}

// Parse returns the syntax tree of src, consulting the cache first
func (e *Engine) Parse(src string) (*ast.Program, error) {
	if e.options.Cache != nil {
		if program, ok := e.options.Cache.Get(src); ok {
			return program, nil
		}
	}

	p, err := parser.New(parser.Options{Logger: e.logger, MaxSourceLength: e.options.MaxSourceLength})
	if err != nil {
		return nil, err
	}
	program, err := p.Parse(src)
	if err != nil {
		return nil, err
	}

	if e.options.Cache != nil {
		e.options.Cache.Put(src, program)
	}
	return program, nil
}

// Run parses and executes src. Raw input values are converted with
// interpreter.InputValue.
func (e *Engine) Run(ctx context.Context, src string, inputs map[string]string) *Result {
	return e.RunValues(ctx, src, interpreter.InputValues(inputs))
}

// RunValues parses and executes src with already converted input bindings.
// Lexical and syntax errors produce a failed result with empty output.
func (e *Engine) RunValues(ctx context.Context, src string, inputs map[string]interpreter.Value) *Result {
	timer := e.logger.StartTimer("run").WithField("length", len(src))

	start := time.Now()
	program, err := e.Parse(src)
	if err != nil {
		result := &Result{
			Status:   interpreter.StatusFailed,
			Err:      vbserr.As(err),
			Duration: time.Since(start),
		}
		timer.WithField("status", result.Status.String()).Stop()
		return result
	}

	result := interpreter.New(e.options.Interpreter).Run(ctx, program, inputs)
	result.Duration = time.Since(start)

	timer.WithField("status", result.Status.String()).WithField("steps", result.Steps).Stop()
	return result
}
