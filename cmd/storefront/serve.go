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

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/utils"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over HTTP on HOST:PORT (Passenger and other process hosts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if addr == "" {
				addr = listenAddr()
			}
			return serve(ctx, addr, loadApp)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to HOST:PORT from the environment)")
	return cmd
}

// listenAddr reads HOST and PORT without requiring the database settings,
// so a misconfigured app still binds and serves its diagnostics.
func listenAddr() string {
	cfg, err := config.FromEnv(&config.Config{})
	if err != nil {
		utils.Warn("%v, using default listen address", err)
		cfg = &config.Config{}
	}
	cfg.ApplyDefaults()
	return cfg.Addr()
}

func serve(ctx context.Context, addr string, load func(context.Context) (http.Handler, error)) error {
	h, cleanup := buildHandler(ctx, load)
	defer cleanup()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          utils.StdLogger(utils.Warn, "http: "),
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("%s listening on %s", constants.DefaultServiceName, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		utils.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
