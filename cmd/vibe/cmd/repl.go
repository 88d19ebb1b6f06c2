package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/internal/repl"
	"github.com/msto63/vibescript/pkg/core/version"
)

var replNoHistory bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Startet die interaktive VibeScript-Shell",
	Long: `Startet eine interaktive Shell mit Zeileneditor und Historie.

Jede Eingabe wird an die bisherige Sitzung angehängt und die Sitzung neu
ausgeführt; angezeigt wird nur die neue Ausgabe. Unvollständige Eingaben
(offene Blöcke, Strings) werden in Folgezeilen fortgesetzt.

Befehle:
  :quit     - Beenden
  :reset    - Sitzung leeren
  :source   - Bisherigen Quelltext anzeigen
  :inputs   - Bisherige Eingabewerte anzeigen`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replNoHistory, "no-history", false, "Historie nicht speichern")
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger("vibe-repl")

	historyFile := ""
	if !replNoHistory {
		if err := os.MkdirAll(cfg.General.DataDir, 0755); err == nil {
			historyFile = filepath.Join(cfg.General.DataDir, "repl_history")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	r := repl.New(repl.Config{
		Engine:      newEngine(cfg, logger.Foundation(), newProgramCache(cfg)),
		Out:         os.Stdout,
		HistoryFile: historyFile,
		Banner:      bold("VibeScript "+version.Language) + " - :help für Befehle, :quit zum Beenden",
		Logger:      logger,
	})
	return r.Run(ctx)
}
