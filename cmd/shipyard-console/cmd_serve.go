package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/devserver"
)

var serveAddr string

// serveCmd runs the seeded development API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the seeded development API server",
	Long: `Run a local shipyard API server seeded with demo accounts and yard
activity. By default everything is held in memory; set DATABASE_URL to serve
user and summary reads from Postgres.

Demo accounts: admin@blackpearl.com/admin123, eng@blackpearl.com/user123.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides SERVER_HOST/PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store devserver.Store = devserver.NewMemStore()
	if db := cfg.DevServer.Database; db != nil {
		pg, err := devserver.OpenPostgres(ctx, db.DSN())
		if err != nil {
			return err
		}
		defer pg.Close()
		logger.Info("serving reads from postgres", zap.String("database", db.LogString()))
		store = devserver.WithPostgres(store, pg)
	}

	srv := devserver.New(store, devserver.Config{
		SigningKey: []byte(cfg.DevServer.SigningKey),
		TokenTTL:   cfg.DevServer.TokenTTL,
		Logger:     logger,
	})

	addr := serveAddr
	if addr == "" {
		addr = cfg.DevServer.Address()
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev server listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("dev server stopped")
	return nil
}
