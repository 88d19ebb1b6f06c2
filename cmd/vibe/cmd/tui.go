package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/internal/catalog"
	"github.com/msto63/vibescript/internal/tui/playground"
	"github.com/msto63/vibescript/pkg/core/logging"
	"github.com/msto63/vibescript/pkg/core/version"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [DATEI]",
	Short: "Startet den Terminal-Playground",
	Long: `Startet den Terminal-Playground mit Editor und Ausgabebereich.

Navigation:
  Ctrl+R    - Programm ausführen
  Ctrl+E    - Beispiel auswählen
  Ctrl+N    - Neues Programm
  Ctrl+L    - Ausgabe leeren
  PgUp/PgDn - Ausgabe scrollen
  Ctrl+C    - Beenden`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so the TUI logs nothing below errors
	logger := newLogger("vibe-tui").WithLevel(logging.LevelError)

	code := ""
	if len(args) == 1 {
		if code, err = readSource(args[0]); err != nil {
			return err
		}
	}

	var examples playground.Examples
	cat := catalog.New(cfg.Catalog.Dir, logger)
	if err := cat.LoadAll(); err == nil {
		examples = cat
	}

	if err := playground.Run(playground.Config{
		Engine:     newEngine(cfg, logger.Foundation(), newProgramCache(cfg)),
		Examples:   examples,
		Code:       code,
		RunTimeout: cfg.Server.RunTimeout.Duration,
		Version:    version.Platform,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "TUI Fehler: %v\n", err)
		return &exitError{code: 1}
	}
	return nil
}
