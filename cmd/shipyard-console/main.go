package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/config"
	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/console"
	"github.com/blackpearl/shipyard-console/internal/logging"
	"github.com/blackpearl/shipyard-console/internal/session"
	"github.com/blackpearl/shipyard-console/internal/view"
)

var (
	// Global flags
	baseURL  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shipyard-console",
	Short: "Black Pearl shipyard operations console",
	Long: `shipyard-console is the terminal client for the Black Pearl shipyard
operations dashboard.

Log in against the shipyard API, browse the sections your department grants,
and watch the summary widgets refresh live. A seeded development server is
included for working offline (see 'shipyard-console serve').`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.New()
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.Client.BaseURL = baseURL
		}
		if logLevel != "" {
			cfg.Observability.LogLevel = logLevel
		}

		logger, err = logging.New(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// buildConsole assembles the client engine from the loaded configuration.
func buildConsole(onForcedOut func()) (*console.Console, error) {
	backend, err := session.NewFileBackend(cfg.Client.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open session state: %w", err)
	}
	sessions := session.NewStore(backend, logger)

	table := authz.AccessTable(nil)
	if cfg.Client.AccessTablePath != "" {
		table, err = authz.LoadAccessTable(cfg.Client.AccessTablePath)
		if err != nil {
			return nil, fmt.Errorf("load access table: %w", err)
		}
	}
	policy, err := authz.NewPolicy(table)
	if err != nil {
		return nil, err
	}

	return console.New(console.Options{
		BaseURL:     cfg.Client.BaseURL,
		Sessions:    sessions,
		Policy:      policy,
		Renderer:    view.NewTermRenderer(os.Stdout),
		Interval:    int(cfg.Client.RefreshInterval.Seconds()),
		Logger:      logger,
		OnForcedOut: onForcedOut,
	}), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "shipyard API base URL (overrides SHIPYARD_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
