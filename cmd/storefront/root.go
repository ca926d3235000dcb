package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
	"github.com/pantryshop/storefront/gateway"
	storehttp "github.com/pantryshop/storefront/http"
	"github.com/pantryshop/storefront/server"
	"github.com/pantryshop/storefront/utils"
)

var (
	exit           = os.Exit
	configPath     string
	envFile        string
	debug          bool
	requestTimeout time.Duration
)

// NewRootCmd creates the root 'storefront' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Run the storefront API under a process-based host",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to storefront config JSON")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", constants.EnvFileName, "Path to a .env file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "request-timeout", 60*time.Second, "Maximum time to wait for the application to answer a request (0 disables)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				utils.Warn("failed to load %s: %v", envFile, err)
			}
		}
		if debug || os.Getenv(constants.EnvDebug) != "" {
			_ = utils.SetLevel("debug")
		}
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newFCGICmd(),
		newCGICmd(),
		newCheckCmd(),
	)
	return rootCmd
}

// loadApp builds the storefront API from --config and the environment.
func loadApp(ctx context.Context) (http.Handler, error) {
	app, err := server.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// buildHandler resolves the application (or its diagnostic stand-in) and
// puts the blocking gateway in front of it when it serves asynchronously.
// The returned cleanup releases the application's resources.
func buildHandler(ctx context.Context, load storehttp.LoadFunc) (http.Handler, func()) {
	h := storehttp.Resolve(ctx, load, constants.HintPassenger)

	cleanup := func() {}
	if c, ok := h.(interface{ Close(context.Context) error }); ok {
		cleanup = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.Close(ctx); err != nil {
				utils.Warn("failed to close application: %v", err)
			}
		}
	}

	if app, ok := h.(gateway.AsyncHandler); ok {
		return gateway.New(app, gateway.WithTimeout(requestTimeout)), cleanup
	}
	return h, cleanup
}
