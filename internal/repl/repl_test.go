package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/pkg/core/logging"
)

func newSession() *Session {
	return NewSession(engine.New(engine.Options{Logger: vbslog.Discard()}))
}

func TestSession_AccumulatesChunks(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	steps := []struct {
		chunk        string
		wantOutput   string
		wantAccepted bool
	}{
		{"lit x = 2;", "", true},
		{"spill_the_tea x;", "2\n", true},
		{"x = x * 10;", "", true},
		{"spill_the_tea x;", "20\n", true},
		{"spill_the_tea undefined_thing;", "", false},
		{"spill_the_tea x + 1;", "21\n", true},
	}

	for i, step := range steps {
		outcome := s.Eval(ctx, step.chunk)
		if outcome.NewOutput != step.wantOutput {
			t.Errorf("step %d: output = %q, want %q", i, outcome.NewOutput, step.wantOutput)
		}
		if outcome.Accepted != step.wantAccepted {
			t.Errorf("step %d: accepted = %v, want %v", i, outcome.Accepted, step.wantAccepted)
		}
	}

	if got := strings.Count(s.Source(), "\n"); got != 4 {
		t.Errorf("source has %d line breaks:\n%s", got, s.Source())
	}
}

func TestSession_FailedChunkShowsPartialOutputOnce(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	outcome := s.Eval(ctx, "spill_the_tea 1;\nspill_the_tea 1 / 0;")
	if outcome.NewOutput != "1\n" || outcome.Result.Status != interpreter.StatusFailed {
		t.Fatalf("outcome = %q %s", outcome.NewOutput, outcome.Result.Status)
	}

	outcome = s.Eval(ctx, "spill_the_tea 2;")
	if outcome.NewOutput != "2\n" {
		t.Errorf("output after failure = %q", outcome.NewOutput)
	}
}

func TestSession_Input(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	outcome := s.Eval(ctx, "spill_the_tea \"who?\";\nvibe_check who;\nspill_the_tea \"hi \" + who;")
	if outcome.Result.Status != interpreter.StatusNeedsInput || outcome.Result.PendingInput != "who" {
		t.Fatalf("status = %s pending %q", outcome.Result.Status, outcome.Result.PendingInput)
	}
	if outcome.NewOutput != "who?\n" || !s.Pending() {
		t.Fatalf("output = %q pending = %v", outcome.NewOutput, s.Pending())
	}

	outcome = s.Provide(ctx, "who", "Ada")
	if !outcome.Accepted || outcome.NewOutput != "hi Ada\n" {
		t.Errorf("after input: accepted %v output %q", outcome.Accepted, outcome.NewOutput)
	}
	if s.Inputs()["who"] != "Ada" {
		t.Errorf("inputs = %v", s.Inputs())
	}
}

func TestSession_AbandonAndReset(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	s.Eval(ctx, "spill_the_tea 1;")
	s.Eval(ctx, "spill_the_tea 2;\nvibe_check n;")
	s.Abandon()
	if s.Pending() {
		t.Fatal("pending after Abandon")
	}

	outcome := s.Eval(ctx, "spill_the_tea 3;")
	if outcome.NewOutput != "3\n" {
		t.Errorf("output = %q", outcome.NewOutput)
	}

	s.Reset()
	if s.Source() != "" {
		t.Errorf("source after reset = %q", s.Source())
	}
	outcome = s.Eval(ctx, "spill_the_tea 1;")
	if outcome.NewOutput != "1\n" {
		t.Errorf("output after reset = %q", outcome.NewOutput)
	}
}

func TestNeedsMore(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"spill_the_tea 1;", false},
		{"spill_the_tea 1", true},
		{"lowkey (this_slaps) lets_go", true},
		{"rizz_up f(a) lets_go\n  slay a;", true},
		{"rizz_up f(a) lets_go\n  slay a;\nyeet", false},
		{"spill_the_tea \"open", true},
		{"spill_the_tea );", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := NeedsMore(tt.src); got != tt.want {
			t.Errorf("NeedsMore(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestCommand(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := New(Config{
		Engine: engine.New(engine.Options{Logger: vbslog.Discard()}),
		Out:    &out,
		Logger: logging.Wrap(vbslog.Discard(), "repl-test"),
	})
	r.Session().Eval(context.Background(), "lit a = 1;")

	if r.command(":source") {
		t.Error(":source should not quit")
	}
	if !strings.Contains(out.String(), "lit a = 1;") {
		t.Errorf(":source printed %q", out.String())
	}

	r.command(":reset")
	if r.Session().Source() != "" {
		t.Error(":reset did not clear the session")
	}

	out.Reset()
	r.command(":nope")
	if !strings.Contains(out.String(), "Unbekannter Befehl :nope") {
		t.Errorf("unknown command output %q", out.String())
	}

	if !r.command(":quit") {
		t.Error(":quit should quit")
	}
}
