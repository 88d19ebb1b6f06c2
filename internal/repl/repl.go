// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     repl
// Description: Line-editing read-eval-print loop
// Author:      Mike Stoffels
// Created:     2026-09-25
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/foundation/vibe/parser"
	"github.com/msto63/vibescript/pkg/core/logging"
)

const (
	promptMain  = "vibe> "
	promptCont  = "  ... "
	promptInput = "  %s? "
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Config configures the REPL
type Config struct {
	Engine      *engine.Engine
	Out         io.Writer
	HistoryFile string // empty disables persistent history
	Banner      string
	Logger      *logging.Logger
}

// REPL is an interactive VibeScript shell
type REPL struct {
	session *Session
	out     io.Writer
	config  Config
	logger  *logging.Logger
}

// New creates a REPL
func New(cfg Config) *REPL {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("repl")
	}
	return &REPL{
		session: NewSession(cfg.Engine),
		out:     cfg.Out,
		config:  cfg,
		logger:  cfg.Logger,
	}
}

// Session returns the underlying session
func (r *REPL) Session() *Session {
	return r.session
}

// Run reads chunks until EOF or :quit
func (r *REPL) Run(ctx context.Context) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if r.config.HistoryFile != "" {
		if f, err := os.Open(r.config.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(r.config.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	if r.config.Banner != "" {
		fmt.Fprintln(r.out, r.config.Banner)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		chunk, ok := readChunk(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}

		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if quit := r.command(trimmed); quit {
				return nil
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(chunk, "\n", " "))
		r.evaluate(ctx, ln, chunk)
	}
}

// evaluate runs a chunk and asks for input values until it settles
func (r *REPL) evaluate(ctx context.Context, ln *liner.State, chunk string) {
	outcome := r.session.Eval(ctx, chunk)
	for {
		r.print(outcome)
		if outcome.Result.Status != interpreter.StatusNeedsInput {
			return
		}

		name := outcome.Result.PendingInput
		value, err := ln.Prompt(fmt.Sprintf(promptInput, name))
		if err != nil {
			r.session.Abandon()
			fmt.Fprintln(r.out, yellow("Eingabe abgebrochen"))
			return
		}
		outcome = r.session.Provide(ctx, name, value)
	}
}

func (r *REPL) print(outcome *Outcome) {
	if outcome.NewOutput != "" {
		fmt.Fprint(r.out, outcome.NewOutput)
	}
	if outcome.Result != nil && outcome.Result.Status == interpreter.StatusFailed {
		fmt.Fprintln(r.out, red(outcome.Result.ErrorText()))
	}
}

// command executes a :command and reports whether the REPL should exit
func (r *REPL) command(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":reset":
		r.session.Reset()
		fmt.Fprintln(r.out, yellow("Sitzung zurückgesetzt"))
	case ":source":
		src := r.session.Source()
		if src == "" {
			fmt.Fprintln(r.out, yellow("(leer)"))
		} else {
			fmt.Fprintln(r.out, cyan(src))
		}
	case ":inputs":
		for name, value := range r.session.Inputs() {
			fmt.Fprintf(r.out, "%s = %q\n", name, value)
		}
	case ":help":
		fmt.Fprintln(r.out, "Befehle: :quit, :reset, :source, :inputs, :help")
	default:
		fmt.Fprintf(r.out, "Unbekannter Befehl %s. :help zeigt alle Befehle.\n", fields[0])
	}
	return false
}

// readChunk reads lines until the collected text parses or fails for a
// reason other than running out of input.
func readChunk(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !NeedsMore(src) {
			return src, true
		}
	}
}

// NeedsMore reports whether src is an unfinished chunk that more lines
// could complete
func NeedsMore(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, err := parser.Parse(src)
	return err != nil && parser.IsIncomplete(err)
}
