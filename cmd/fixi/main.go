package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"coinfixi/internal/config"
	"coinfixi/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiBase    string
	timeout    time.Duration

	// Loaded by the root pre-run.
	cfg *config.Config

	// Set by the release build.
	version = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fixi",
	Short: "fixi - Coinfixi operator console",
	Long: `fixi is the terminal console for the Coinfixi admin API.

It lists and acts on clients, transactions, alerts, compliance checks,
invoices, commissions, admin users, activity logs, webhooks and API
statuses. Every listing goes through the same searchable, sortable table.

Run without arguments to start the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if apiBase != "" {
			loaded.API.BaseURL = apiBase
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		// The console owns the terminal; it only ever logs to the file.
		interactive := !cmd.HasParent() || cmd.Name() == "ui"
		lc := logging.Config{
			Level:      cfg.Logging.Level,
			File:       cfg.Logging.File,
			JSON:       cfg.Logging.Format == "json",
			Console:    verbose && !interactive,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Categories: cfg.Logging.Categories,
		}
		if verbose {
			lc.Level = "debug"
		}
		if err := logging.Initialize(lc); err != nil {
			return err
		}
		logging.Get(logging.CategoryBoot).Debugw("config loaded",
			"path", path, "api", cfg.API.BaseURL, "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runUI,
}

// requestTimeout is the deadline for one command's API calls.
func requestTimeout() time.Duration {
	if timeout > 0 {
		return timeout
	}
	return cfg.GetAPITimeout()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the fixi version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "fixi %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $COINFIXI_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "Admin API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-command API timeout (default: api.timeout)")

	rootCmd.AddCommand(
		versionCmd,
		uiCmd,
		serveCmd,
		listCmd,
		showCmd,
		overviewCmd,
		journalCmd,
		configCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
