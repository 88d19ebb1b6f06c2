package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/internal/store"
)

var (
	historyLimit  int
	historyStatus string
	historyOrigin string
	historyStats  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Ausführungshistorie anzeigen",
	Long: `Zeigt die gespeicherten Programmläufe an.

Beispiele:
  vibe history                    # Letzte Läufe
  vibe history --status failed    # Nur fehlgeschlagene Läufe
  vibe history --stats            # Zusammenfassung
  vibe history <id>               # Einen Lauf mit Quelltext anzeigen`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximale Anzahl")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Filter: completed, needs_input, failed")
	historyCmd.Flags().StringVar(&historyOrigin, "origin", "", "Filter: cli, http, ws")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Statistik anzeigen")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: cfg.Store.Path})
	if err != nil {
		return fmt.Errorf("Store kann nicht geöffnet werden: %w", err)
	}
	defer s.Close()

	ctx := context.Background()

	switch {
	case len(args) == 1:
		return showRun(ctx, s, args[0])
	case historyStats:
		return showStats(ctx, s)
	}

	runs, err := s.ListRuns(ctx, store.RunFilter{
		Origin: historyOrigin,
		Status: historyStatus,
		Limit:  historyLimit,
	})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("Keine Läufe gespeichert.")
		return nil
	}

	fmt.Printf("%-36s %-19s %-6s %-12s %8s  %s\n", "ID", "ZEIT", "QUELLE", "STATUS", "DAUER", "BEISPIEL")
	for _, run := range runs {
		fmt.Printf("%-36s %-19s %-6s %-12s %6.1fms  %s\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Origin,
			statusColor(run.Status),
			run.DurationMS,
			run.Example,
		)
	}
	return nil
}

func showRun(ctx context.Context, s *store.SQLiteStore, id string) error {
	run, err := s.GetRun(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("Lauf %s nicht gefunden", id)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", bold("Lauf"), run.ID)
	fmt.Printf("  Zeit:     %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Quelle:   %s\n", run.Origin)
	if run.Example != "" {
		fmt.Printf("  Beispiel: %s\n", run.Example)
	}
	fmt.Printf("  Status:   %s\n", statusColor(run.Status))
	fmt.Printf("  Schritte: %d\n", run.Steps)
	fmt.Printf("  Dauer:    %.2fms\n", run.DurationMS)
	if run.PendingInput != "" {
		fmt.Printf("  Wartet auf Eingabe: %s\n", run.PendingInput)
	}
	if run.Error != "" {
		fmt.Printf("  Fehler:   %s\n", red(run.Error))
	}

	fmt.Println()
	fmt.Println(bold("Quelltext"))
	fmt.Println(strings.TrimRight(run.Code, "\n"))
	if run.Output != "" {
		fmt.Println()
		fmt.Println(bold("Ausgabe"))
		fmt.Println(strings.TrimRight(run.Output, "\n"))
	}
	return nil
}

func showStats(ctx context.Context, s *store.SQLiteStore) error {
	stats, err := s.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Läufe gesamt:     %d\n", stats.TotalRuns)
	for _, status := range []string{"completed", "needs_input", "failed"} {
		fmt.Printf("  %-15s %d\n", statusColor(status), stats.RunsByStatus[status])
	}
	for origin, n := range stats.RunsByOrigin {
		fmt.Printf("  Quelle %-8s %d\n", origin, n)
	}
	fmt.Printf("Mittlere Dauer:   %.2fms\n", stats.AvgDurationMS)
	fmt.Printf("Log-Einträge:     %d\n", stats.TotalLogs)
	if stats.LastRun != nil {
		fmt.Printf("Letzter Lauf:     %s\n", stats.LastRun.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func statusColor(status string) string {
	switch status {
	case "completed":
		return green(status)
	case "needs_input":
		return yellow(status)
	case "failed":
		return red(status)
	}
	return status
}
