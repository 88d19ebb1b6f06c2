package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/internal/catalog"
)

var (
	syncRef     string
	syncSubdir  string
	syncTimeout time.Duration
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Beispielkatalog verwalten",
	Long: `Zeigt die Beispielprogramme des Katalogs an.

Beispiele:
  vibe examples                          # Alle Beispiele anzeigen
  vibe examples show fizzbuzz            # Quelltext anzeigen
  vibe examples sync https://host/repo   # Beispiele aus Git importieren`,
	Args: cobra.NoArgs,
	RunE: runExamplesList,
}

var examplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Alle Beispiele anzeigen",
	Args:  cobra.NoArgs,
	RunE:  runExamplesList,
}

var examplesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Beispiel anzeigen",
	Args:  cobra.ExactArgs(1),
	RunE:  runExamplesShow,
}

var examplesSyncCmd = &cobra.Command{
	Use:   "sync [url]",
	Short: "Beispiele aus einem Git-Repository importieren",
	Long: `Klont das Repository und kopiert alle .vs- und .yaml-Dateien in das
Katalogverzeichnis. Ohne URL wird catalog.repo_url aus der Config verwendet.

Beispiele:
  vibe examples sync https://github.com/msto63/vibescript --subdir examples
  vibe examples sync --ref v1.0.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExamplesSync,
}

func init() {
	rootCmd.AddCommand(examplesCmd)
	examplesCmd.AddCommand(examplesListCmd)
	examplesCmd.AddCommand(examplesShowCmd)
	examplesCmd.AddCommand(examplesSyncCmd)

	examplesSyncCmd.Flags().StringVar(&syncRef, "ref", "", "Branch, Tag oder Commit (default: catalog.ref oder HEAD)")
	examplesSyncCmd.Flags().StringVar(&syncSubdir, "subdir", "", "Unterverzeichnis im Repository")
	examplesSyncCmd.Flags().DurationVar(&syncTimeout, "timeout", 2*time.Minute, "Timeout für den Import")
}

func loadCatalog() (*catalog.Catalog, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cat := catalog.New(cfg.Catalog.Dir, newLogger("vibe-examples"))
	if err := cat.LoadAll(); err != nil {
		return nil, fmt.Errorf("Katalog kann nicht geladen werden: %w", err)
	}
	return cat, nil
}

func runExamplesList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	examples := cat.List()
	if len(examples) == 0 {
		fmt.Printf("Keine Beispiele in %s.\n", cat.Dir())
		return nil
	}

	fmt.Printf("%-20s %-28s %-7s %s\n", "NAME", "TITEL", "INPUT", "TAGS")
	for _, ex := range examples {
		input := ""
		if ex.HasInputs {
			input = "ja"
		}
		fmt.Printf("%-20s %-28s %-7s %s\n", ex.Name, ex.Title, input, strings.Join(ex.Tags, ", "))
	}
	fmt.Printf("\n%d Beispiele in %s\n", len(examples), cat.Dir())
	return nil
}

func runExamplesShow(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ex, err := cat.Get(args[0])
	if err != nil {
		if errors.Is(err, catalog.ErrExampleNotFound) {
			return fmt.Errorf("Example '%s' not found", args[0])
		}
		return err
	}

	fmt.Println(bold(ex.Title))
	if ex.Description != "" {
		fmt.Println(ex.Description)
	}
	if len(ex.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(ex.Tags, ", "))
	}
	if len(ex.Inputs) > 0 {
		names := make([]string, 0, len(ex.Inputs))
		for name := range ex.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Eingaben:")
		for _, name := range names {
			fmt.Printf("  %s = %s\n", cyan(name), ex.Inputs[name])
		}
	}
	fmt.Println()
	fmt.Print(ex.Code)
	if !strings.HasSuffix(ex.Code, "\n") {
		fmt.Println()
	}
	return nil
}

func runExamplesSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := catalog.SyncOptions{
		URL:    cfg.Catalog.RepoURL,
		Ref:    cfg.Catalog.Ref,
		Subdir: syncSubdir,
	}
	if len(args) == 1 {
		opts.URL = args[0]
	}
	if syncRef != "" {
		opts.Ref = syncRef
	}
	if opts.URL == "" {
		return fmt.Errorf("keine Repository-URL angegeben (Argument oder catalog.repo_url)")
	}

	cat := catalog.New(cfg.Catalog.Dir, newLogger("vibe-examples"))

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	fmt.Printf("Importiere %s ...\n", opts.URL)
	result, err := cat.Sync(ctx, opts)
	if err != nil {
		return err
	}

	short := result.Commit
	if len(short) > 10 {
		short = short[:10]
	}
	for _, file := range result.Copied {
		fmt.Printf("  %s %s\n", green("+"), file)
	}
	fmt.Printf("%d Dateien von Commit %s, %d Beispiele im Katalog\n", len(result.Copied), short, cat.Len())
	return nil
}
