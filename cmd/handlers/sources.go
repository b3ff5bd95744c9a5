package handlers

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tahofeed/internal/config"
	"tahofeed/internal/sources"
)

// NewSourcesCmd creates the sources command listing the publisher registry
func NewSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured news publishers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			publishers, err := sources.Publishers(cfg.Feeds.OverrideFile)
			if err != nil {
				return fmt.Errorf("failed to load source registry: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFEED URL\tHOME PAGE")
			for _, p := range publishers {
				home, _ := sources.HomePage(p.Name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.FeedURL, home)
			}
			return w.Flush()
		},
	}
}
