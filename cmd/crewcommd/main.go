// Package main is the entry point for crewcommd, the vessel-local
// message service the crewcomm client talks to.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vesselworks/crewcomm/internal/config"
	"github.com/vesselworks/crewcomm/internal/db"
	"github.com/vesselworks/crewcomm/internal/logging"
	"github.com/vesselworks/crewcomm/internal/server"
)

var version = "dev"

var (
	cfgFile    string
	listenFlag string
)

var rootCmd = &cobra.Command{
	Use:           "crewcommd",
	Short:         "Crew messaging service",
	Long:          "crewcommd serves the vessel-local messaging API backed by SQLite.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/crewcomm/config.yaml)")
	rootCmd.Flags().StringVar(&listenFlag, "listen", "", "listen address (overrides listen.addr)")
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if listenFlag != "" {
		cfg.Listen.Addr = listenFlag
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	log := logging.Component("crewcommd")

	database, err := db.Open(cfg.DatabasePath(), cfg.Database.MaxConnections, cfg.Database.BusyTimeoutMs)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	handler := server.New(database).Router(server.Options{
		AllowedOrigins: cfg.Listen.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.Listen.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Listen.Addr).
			Str("db", cfg.DatabasePath()).
			Str("version", version).
			Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
