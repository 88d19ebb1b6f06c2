package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/foundation/vibe/ast"
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/internal/store"
	"github.com/msto63/vibescript/pkg/core/cache"
)

const exitNeedsInput = 3

var (
	runInputs   []string
	runNoPrompt bool
	runShowAST  bool
	runRecord   bool
	runTimeout  time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run DATEI",
	Short: "Führt ein VibeScript-Programm aus",
	Long: `Führt ein VibeScript-Programm aus. "-" liest das Programm von stdin.

Fehlt einer vibe_check-Anweisung ein Wert, fragt vibe auf stdin danach
und startet das Programm mit allen bisherigen Werten neu.

Exit-Codes:
  0  Programm vollständig ausgeführt
  1  Lexikalischer, Syntax- oder Laufzeitfehler
  3  Eingabe benötigt (nur mit --no-prompt)

Beispiele:
  vibe run examples/hello_world.vs
  vibe run greeter.vs --input name=Ada
  echo 'spill_the_tea 1 + 1;' | vibe run -`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringArrayVarP(&runInputs, "input", "i", nil, "Eingabewert name=wert (mehrfach möglich)")
	runCmd.Flags().BoolVar(&runNoPrompt, "no-prompt", false, "Nicht nach fehlenden Eingaben fragen (Exit-Code 3)")
	runCmd.Flags().BoolVar(&runShowAST, "ast", false, "Syntaxbaum vor der Ausführung ausgeben")
	runCmd.Flags().BoolVar(&runRecord, "record", false, "Ausführung in der Historie speichern")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Maximale Laufzeit (0 = unbegrenzt)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	inputs, err := parseInputs(runInputs)
	if err != nil {
		return err
	}

	logger := newLogger("vibe-run")
	e := newEngine(cfg, logger.Foundation(), nil)

	if runShowAST {
		program, err := e.Parse(src)
		if err == nil {
			fmt.Fprintln(os.Stderr, cyan(ast.Dump(program)))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	// Stdin carries the program itself, so it cannot answer prompts
	prompt := !runNoPrompt && args[0] != "-"

	result := execute(ctx, e, src, inputs, os.Stdout, os.Stderr, os.Stdin, prompt)

	if runRecord {
		if err := recordRun(ctx, cfg.Store.Path, args[0], src, result); err != nil {
			fmt.Fprintf(os.Stderr, "%s Historie nicht gespeichert: %v\n", yellow("Warnung:"), err)
		}
	}

	switch result.Status {
	case interpreter.StatusNeedsInput:
		fmt.Fprintf(os.Stderr, "%s Eingabe für %q benötigt (--input %s=...)\n",
			yellow("Hinweis:"), result.PendingInput, result.PendingInput)
		return &exitError{code: exitNeedsInput}
	case interpreter.StatusFailed:
		fmt.Fprintln(os.Stderr, red(result.ErrorText()))
		return &exitError{code: 1}
	}
	return nil
}

// execute runs src, asking on in for missing inputs when prompt is set.
// Output that an earlier attempt already printed is not printed again.
func execute(ctx context.Context, e *engine.Engine, src string, inputs map[string]string,
	out, promptOut io.Writer, in io.Reader, prompt bool) *engine.Result {

	reader := bufio.NewReader(in)
	emitted := ""

	for {
		result := e.Run(ctx, src, inputs)

		output := result.Output
		if strings.HasPrefix(output, emitted) {
			output = output[len(emitted):]
		}
		fmt.Fprint(out, output)
		emitted = result.Output

		if result.Status != interpreter.StatusNeedsInput || !prompt {
			return result
		}

		fmt.Fprintf(promptOut, "%s ", bold(result.PendingInput+"?"))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return result
		}
		inputs[result.PendingInput] = strings.TrimRight(line, "\r\n")
	}
}

// parseInputs converts name=value flags into a binding map
func parseInputs(pairs []string) (map[string]string, error) {
	inputs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("ungültige Eingabe %q, erwartet name=wert", pair)
		}
		inputs[name] = value
	}
	return inputs, nil
}

func recordRun(ctx context.Context, path, file, src string, result *engine.Result) error {
	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return err
	}
	defer s.Close()

	run := &store.Run{
		Origin:       "cli",
		Example:      file,
		SourceHash:   cache.SourceHash(src),
		Code:         src,
		Status:       result.Status.String(),
		Output:       result.Output,
		PendingInput: result.PendingInput,
		Steps:        result.Steps,
		DurationMS:   float64(result.Duration.Microseconds()) / 1000,
	}
	if result.Err != nil {
		run.Error = result.ErrorText()
		run.ErrorCode = string(result.Err.Code())
	}
	// The run context may already be cancelled by the timeout
	return s.RecordRun(context.WithoutCancel(ctx), run)
}
