// Package main provides the Neptune command-line client for running searches
// against the configured catalog without starting the HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"neptune/internal/config"
	"neptune/internal/logger"
)

var (
	// Global flags
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg *config.Config
	log *logrus.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "neptune-cli",
	Short: "Neptune CLI for local service search",
	Long: `Neptune CLI runs the same intent extraction, scoring and summary pipeline
as the HTTP server, reading configuration from the environment (and .env).

All commands support --json for automation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logCfg := cfg.Logging
		if verbose {
			logCfg.Level = "debug"
		} else if logCfg.Level == "" || logCfg.Level == "info" {
			logCfg.Level = "warn"
		}
		log = logger.New(logCfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newIntentCmd())
	rootCmd.AddCommand(newSeedCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
