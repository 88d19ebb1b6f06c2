package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/pkg/core/cache"
	"github.com/msto63/vibescript/pkg/core/config"
	"github.com/msto63/vibescript/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "VibeScript - Interpreter & Playground",
	Long: `VibeScript ist eine kleine Skriptsprache mit Slang-Schlüsselwörtern.

Befehle:
  run       - Programm ausführen
  parse     - Syntaxbaum oder Tokens anzeigen
  repl      - Interaktive Shell
  tui       - Terminal-Playground
  serve     - Playground-Server (HTTP/WebSocket)
  examples  - Beispielkatalog verwalten
  history   - Ausführungshistorie anzeigen`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var exit *exitError
		if !errors.As(err, &exit) || exit.err != nil {
			printError(err)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Farbige Ausgabe abschalten")
}

// exitError carries a process exit code. A nil err means the message was
// already printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", red("Fehler:"), err)
}

// loadConfig loads the configuration from --config, the environment or the
// defaults, in that order
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "%s %v, nutze Defaults\n", yellow("Warnung:"), err)
		}
		return config.Default(), nil
	}
	return cfg, nil
}

// newLogger creates the console logger of the CLI commands. Only warnings
// reach the terminal unless --verbose is set.
func newLogger(name string) *logging.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.Wrap(logging.NewLogger(logging.LoggerConfig{
		ServiceName: name,
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
	}), name)
}

// newEngine builds an engine with the configured limits
func newEngine(cfg *config.Config, logger *vbslog.Logger, programCache engine.ProgramCache) *engine.Engine {
	return engine.New(engine.Options{
		Logger: logger,
		Interpreter: interpreter.Options{
			Logger:       logger,
			MaxSteps:     cfg.Interpreter.MaxSteps,
			MaxCallDepth: cfg.Interpreter.MaxCallDepth,
		},
		MaxSourceLength: cfg.Interpreter.MaxSourceLength,
		Cache:           programCache,
	})
}

// newProgramCache builds the parse cache for long running commands
func newProgramCache(cfg *config.Config) *cache.ProgramCache {
	return cache.NewProgramCache(cache.ProgramConfig{
		MaxPrograms: cfg.Interpreter.CacheSize,
		TTL:         cfg.Interpreter.CacheTTL.Duration,
	})
}

// readSource reads a program from a file or, for "-", from stdin
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Datei kann nicht gelesen werden: %w", err)
	}
	return string(data), nil
}
