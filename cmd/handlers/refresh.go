package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tahofeed/internal/config"
	"tahofeed/internal/core"
)

// NewRefreshCmd creates the refresh command for one-shot aggregation
func NewRefreshCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh [category]",
		Short: "Run one aggregation pass and print the resulting display set",
		Long: `Run a single aggregation pass: fetch all publisher feeds, filter and
classify, select a source-diverse display set, and enrich it with AI
summaries when a Gemini key is configured.

Without a category the unfiltered view is refreshed. Category accepts the
display name or its English alias (e.g. "Pulitika" or "politics").

Examples:
  # Refresh the unfiltered view, serving the cache when fresh
  tahofeed refresh

  # Bypass the cache and refetch sports headlines
  tahofeed refresh sports --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := core.CategoryAll
			if len(args) == 1 {
				c, ok := core.ParseCategory(args[0])
				if !ok {
					return fmt.Errorf("unknown category %q", args[0])
				}
				category = c
			}
			return runRefresh(cmd.Context(), category, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Bypass the cache and refetch")

	return cmd
}

func runRefresh(ctx context.Context, category core.Category, force bool) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, _, cleanup, err := buildService(runCtx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Refresh(runCtx, category, force); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	articles := svc.Articles()
	fmt.Printf("Refreshed %q: %d articles (state %s)\n\n", category, len(articles), svc.State())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSOURCE\tPUBLISHED\tTITLE")
	for _, a := range articles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Category, a.Source.Name, a.PublishTime, a.Title)
	}
	return w.Flush()
}
