package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tahofeed/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tahofeed",
		Short: "Tahofeed aggregates, classifies, and enriches Philippine news headlines.",
		Long: `Tahofeed pulls RSS feeds from major Philippine news publishers, filters
and classifies the headlines into Filipino-language categories, selects a
source-diverse display set, and enriches it with AI summaries in English
and Filipino.

Run 'tahofeed serve' to expose the feed over HTTP, or 'tahofeed refresh'
for a one-shot aggregation pass.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tahofeed.yaml)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewRefreshCmd())
	rootCmd.AddCommand(NewSourcesCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}
