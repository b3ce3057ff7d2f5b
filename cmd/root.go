package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-jsontree/internal/config"
	"github.com/deploymenttheory/go-jsontree/internal/logger"
)

var (
	verbose bool
	quiet   bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jsontree",
	Short: "Inspect, validate and render jsontree snapshot files",
	Long: `jsontree is a command-line tool for working with binary tree
snapshots: contiguous buffers holding a name/value tree of JSON-style
data. It can validate a snapshot's structure, render it as JSON text,
and report statistics about its contents.

Commands:
  render      Render a snapshot as JSON text
  validate    Check a snapshot's structural integrity
  inspect     Report node and buffer statistics for a snapshot
  sample      Generate a small example snapshot`,
	Version: "0.1.0-dev",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if quiet {
			level = "error"
		}
		logger.InitGlobalLogger(logger.Config{
			Level:      level,
			Pretty:     cfg.Log.Pretty,
			Output:     os.Stderr,
			WithCaller: cfg.Log.WithCaller,
		})
		log = logger.GetGlobalLogger()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
}
