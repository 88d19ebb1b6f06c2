package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/internal/catalog"
	"github.com/msto63/vibescript/internal/playground/handler"
	"github.com/msto63/vibescript/internal/playground/server"
	"github.com/msto63/vibescript/internal/store"
	"github.com/msto63/vibescript/pkg/core/config"
	"github.com/msto63/vibescript/pkg/core/logging"
	"github.com/msto63/vibescript/pkg/core/version"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den Playground-Server",
	Long: `Startet den Playground-Server mit HTTP-API und WebSocket.

Endpunkte:
  POST /api/v1/run       - Programm ausführen
  GET  /api/v1/run/ws    - Interaktive Ausführung (WebSocket)
  POST /api/v1/parse     - Syntaxbaum erzeugen
  GET  /api/v1/examples  - Beispielkatalog
  GET  /api/v1/history   - Ausführungshistorie
  GET  /api/v1/health    - Health Check`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host (überschreibt die Config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port (überschreibt die Config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	fmt.Println(bold("VibeScript Playground " + version.Playground))
	fmt.Println()

	s, err := store.New(store.Config{Path: cfg.Store.Path})
	if err != nil {
		return fmt.Errorf("Store kann nicht geöffnet werden: %w", err)
	}
	defer s.Close()
	fmt.Printf("  [+] Store: %s\n", cfg.Store.Path)

	logger := newServerLogger(cfg, s)
	defer logging.CloseGlobalSinkWriter()
	if cfg.Logging.ToStore {
		fmt.Println("  [+] Logging in den Store aktiviert")
	}

	programCache := newProgramCache(cfg)
	defer programCache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := catalog.New(cfg.Catalog.Dir, logger)
	if err := cat.LoadAll(); err != nil {
		fmt.Printf("  [!] Beispiele nicht verfügbar: %v\n", err)
	} else {
		fmt.Printf("  [+] %d Beispiele aus %s\n", cat.Len(), cat.Dir())
	}
	if cfg.Catalog.Watch {
		if err := cat.StartWatching(ctx); err != nil {
			fmt.Printf("  [!] Dateiüberwachung nicht verfügbar: %v\n", err)
		} else {
			fmt.Println("  [+] Dateiüberwachung aktiviert")
		}
	}
	defer cat.Stop()

	retention := store.NewRetention(s, store.RetentionConfig{
		MaxAge:   cfg.RetentionPeriod(),
		Interval: cfg.Store.PruneInterval.Duration,
	}, logger)
	if err := retention.Start(); err != nil {
		fmt.Printf("  [!] Aufräumjob nicht verfügbar: %v\n", err)
	} else {
		defer retention.Stop()
		fmt.Printf("  [+] Aufbewahrung: %d Tage\n", cfg.Store.RetentionDays)
	}

	srv, err := server.New(server.Config{
		Host:           cfg.Server.Host,
		HTTPPort:       cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout.Duration,
		WriteTimeout:   cfg.Server.WriteTimeout.Duration,
		RunTimeout:     cfg.Server.RunTimeout.Duration,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		Version:        version.Playground,
		CORS: handler.CORSConfig{
			Enabled:        cfg.Server.CORS.Enabled,
			AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
			AllowedMethods: cfg.Server.CORS.AllowedMethods,
		},
		Engine:  newEngine(cfg, logger.Foundation(), programCache),
		Store:   s,
		Catalog: cat,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := srv.StartAsync(); err != nil {
		return fmt.Errorf("Server kann nicht starten: %w", err)
	}

	fmt.Println()
	fmt.Printf("Playground: http://%s\n", cfg.Address())
	fmt.Printf("Health Check: http://%s/api/v1/health\n", cfg.Address())
	fmt.Println("Drücke Ctrl+C zum Beenden")

	<-sigCh
	fmt.Println("\nStoppe Server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("Shutdown nicht sauber beendet", "error", err)
	}
	return nil
}

// newServerLogger builds the server logger. With logging.to_store every
// entry is also batched into the store.
func newServerLogger(cfg *config.Config, s *store.SQLiteStore) *logging.Logger {
	lc := logging.LoggerConfig{
		ServiceName: "vibe-serve",
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stderr,
		BatchSize:   cfg.Logging.BatchSize,
		FlushPeriod: cfg.Logging.FlushPeriod.Duration,
	}
	if verbose {
		lc.Level = "debug"
	}
	if cfg.Logging.ToStore {
		lc.Sink = s
	}
	return logging.Wrap(logging.NewLogger(lc), lc.ServiceName)
}
