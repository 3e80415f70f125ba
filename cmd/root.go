// Package cmd implements the CLI commands for sitehelper.
package cmd

import (
	"errors"
	"fmt"

	"github.com/dgerlanc/sitehelper/internal/config"
	"github.com/dgerlanc/sitehelper/internal/history"
	"github.com/dgerlanc/sitehelper/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	jsonLogs   bool
	configPath string
	noHistory  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitehelper",
	Short: "Create standard folder trees for field-recording projects",
	Long: `sitehelper creates a project folder inside a category of your main
directory, with Recordings and Pictures subfolders and one folder per mode.

  main directory/
    Coastal/                 <- category
      Harbor/                <- project
        Recordings/Wide/
        Recordings/Tele/
        Pictures/Wide/
        Pictures/Tele/

Settings live in a config.txt file (see 'sitehelper config show').`,
	// Silence usage on errors
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.txt (or set SITEHELPER_CONFIG to its directory)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record created projects")
}

// initApp initializes the application (logger, history)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose, JSON: jsonLogs})

	if err := history.Init("", noHistory); err != nil {
		logger.Warn("history disabled", "error", err)
	}
}

// openStore returns the config store selected by --config or the default
// location.
func openStore() (*config.Store, error) {
	if configPath != "" {
		return config.NewStore(configPath), nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config file: %w", err)
	}
	return config.NewStore(path), nil
}

// loadConfig loads the store's config. A read fault is reported and
// replaced by an empty config; undecodable content is returned as an error
// so it is never silently overwritten.
func loadConfig(cmd *cobra.Command, store *config.Store) (*config.Config, error) {
	cfg, err := store.Load()
	if err == nil {
		return cfg, nil
	}

	var readErr *config.ReadError
	if errors.As(err, &readErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using defaults\n", err)
		return config.New(), nil
	}
	return nil, err
}
