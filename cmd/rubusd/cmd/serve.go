package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubusproject/rubus/internal/auth"
	"github.com/rubusproject/rubus/internal/catalog"
	"github.com/rubusproject/rubus/internal/catalog/sqlcatalog"
	"github.com/rubusproject/rubus/internal/config"
	"github.com/rubusproject/rubus/internal/observability"
	"github.com/rubusproject/rubus/internal/server"
	"github.com/rubusproject/rubus/internal/version"
)

var databasePath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rubusd server",
	Long: `Start the Rubus dispatcher: an accept loop that authenticates each
request and routes LIST/INFO/FETCH requests against the media catalog.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&databasePath, "database", "rubus.db", "catalog database path (\":memory:\" for an ephemeral catalog)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := observability.NewLogger(cfg.Logging)
	slog.SetDefault(logger)

	db, err := sqlcatalog.Open(databasePath, logger)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	repo := sqlcatalog.NewRepository(db)
	pool := catalog.New(repo, logger)
	authenticator := auth.NewTokenAuthenticator()

	dispatcher := server.New(cfg.Server, pool, authenticator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- dispatcher.ListenAndServe()
	}()

	logger.Info("rubusd started",
		slog.String("version", version.Short()),
		slog.String("bind_address", cfg.Server.BindAddress),
		slog.Int("port", cfg.Server.Port),
		slog.String("database", databasePath),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dispatcher exited: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down dispatcher: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("rubusd stopped")
	return nil
}
