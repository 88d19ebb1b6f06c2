// File: engine_test.go
// Title: VibeScript Engine Tests
// Description: Pipeline tests including the acceptance scenarios, error
//              staging and the program cache.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-19
// Modified: 2026-09-19
//
// Change History:
// - 2026-09-19 v0.1.0: Initial test suite

package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/ast"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string]*ast.Program
	hits  int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]*ast.Program)}
}

func (c *mapCache) Get(src string) (*ast.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[src]
	if ok {
		c.hits++
	}
	return p, ok
}

func (c *mapCache) Put(src string, p *ast.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[src] = p
}

func newTestEngine(cache ProgramCache) *Engine {
	return New(Options{Logger: vbslog.Discard(), Cache: cache})
}

func TestEngine_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantStatus interpreter.Status
		wantOutput string
		wantCode   vbserr.Code
		wantMsg    string
		wantLine   int
		wantColumn int
	}{
		{
			name:       "declare and print a sum",
			src:        "lit x = 5;\nspill_the_tea x + 3;",
			wantStatus: interpreter.StatusCompleted,
			wantOutput: "8\n",
		},
		{
			name:       "function doubling its argument",
			src:        "rizz_up double(n) lets_go\n  slay n * 2;\nyeet\nspill_the_tea double(4);",
			wantStatus: interpreter.StatusCompleted,
			wantOutput: "8\n",
		},
		{
			name:       "while loop counting to two",
			src:        "lit i = 0;\nlowkey (i < 3) lets_go\n  spill_the_tea i;\n  i = i + 1;\nyeet",
			wantStatus: interpreter.StatusCompleted,
			wantOutput: "0\n1\n2\n",
		},
		{
			name:       "unterminated string literal",
			src:        "lit x = 1;\nspill_the_tea \"never closed;",
			wantStatus: interpreter.StatusFailed,
			wantCode:   vbserr.CodeLexical,
			wantMsg:    "unterminated string literal",
			wantLine:   2,
			wantColumn: 15,
		},
		{
			name:       "division by zero",
			src:        "spill_the_tea 10 / 0;",
			wantStatus: interpreter.StatusFailed,
			wantCode:   vbserr.CodeRuntime,
			wantMsg:    "division by zero",
			wantLine:   1,
			wantColumn: 18,
		},
		{
			name:       "syntax error",
			src:        "spill_the_tea 1",
			wantStatus: interpreter.StatusFailed,
			wantCode:   vbserr.CodeSyntax,
			wantMsg:    "expected SEMICOLON, got EOF",
			wantLine:   1,
			wantColumn: 16,
		},
	}

	e := newTestEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Run(context.Background(), tt.src, nil)

			if result.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s (err %v)", result.Status, tt.wantStatus, result.Err)
			}
			if result.Output != tt.wantOutput {
				t.Errorf("output = %q, want %q", result.Output, tt.wantOutput)
			}
			if tt.wantStatus != interpreter.StatusFailed {
				return
			}

			if result.Err.Code() != tt.wantCode {
				t.Errorf("code = %s, want %s", result.Err.Code(), tt.wantCode)
			}
			if !strings.Contains(result.Err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", result.Err.Error(), tt.wantMsg)
			}
			if result.Err.Line() != tt.wantLine || result.Err.Column() != tt.wantColumn {
				t.Errorf("position = %d:%d, want %d:%d", result.Err.Line(), result.Err.Column(), tt.wantLine, tt.wantColumn)
			}
		})
	}
}

func TestEngine_RunWithRawInputs(t *testing.T) {
	e := newTestEngine(nil)
	src := "vibe_check n; spill_the_tea n + 1;"

	result := e.Run(context.Background(), src, nil)
	if result.Status != interpreter.StatusNeedsInput || result.PendingInput != "n" {
		t.Fatalf("status = %s, pending = %q", result.Status, result.PendingInput)
	}

	result = e.Run(context.Background(), src, map[string]string{"n": "41"})
	if result.Output != "42\n" {
		t.Errorf("output = %q, want %q", result.Output, "42\n")
	}

	result = e.Run(context.Background(), src, map[string]string{"n": "abc"})
	if result.Output != "abc1\n" {
		t.Errorf("output = %q, want %q", result.Output, "abc1\n")
	}
}

func TestEngine_Cache(t *testing.T) {
	cache := newMapCache()
	e := newTestEngine(cache)
	src := "spill_the_tea 1 + 1;"

	for i := 0; i < 3; i++ {
		if r := e.Run(context.Background(), src, nil); r.Output != "2\n" {
			t.Fatalf("run %d output = %q", i, r.Output)
		}
	}
	if cache.hits != 2 {
		t.Errorf("cache hits = %d, want 2", cache.hits)
	}

	// failed parses are not cached
	e.Run(context.Background(), "spill_the_tea", nil)
	if _, ok := cache.items["spill_the_tea"]; ok {
		t.Error("failed parse was cached")
	}
}

func TestEngine_ConcurrentRuns(t *testing.T) {
	e := newTestEngine(newMapCache())
	src := "lit total = 0; highkey (lit i = 1; i <= 100; i = i + 1) total = total + i; spill_the_tea total;"

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r := e.Run(context.Background(), src, nil); r.Output != "5050\n" {
				errs <- r.Output
			}
		}()
	}
	wg.Wait()
	close(errs)

	for out := range errs {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEngine_TokenizeAndParse(t *testing.T) {
	e := newTestEngine(nil)

	tokens, err := e.Tokenize("lit x;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(tokens) != 4 {
		t.Errorf("got %d tokens, want 4", len(tokens))
	}

	program, err := e.Parse("lit x;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(program.Statements) != 1 {
		t.Errorf("got %d statements", len(program.Statements))
	}
}

func TestEngine_SourceLimit(t *testing.T) {
	e := New(Options{Logger: vbslog.Discard(), MaxSourceLength: 4})
	result := e.Run(context.Background(), "spill_the_tea 1;", nil)
	if result.Status != interpreter.StatusFailed || result.Err.Code() != vbserr.CodeInvalidInput {
		t.Errorf("status = %s, err = %v", result.Status, result.Err)
	}
}
