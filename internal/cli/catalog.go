package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/vitalstats/internal/catalog"
	"github.com/ppiankov/vitalstats/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	catalogPage string
	catalogAll  bool
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the spreadsheets linked from the ministry's page",
	Long: `Download the ministry's listing page and print the prompt spreadsheets
it links to, with the year and month decoded from each file name.
Useful to see which months are published before running prompt.

Example:
  vitalstats catalog
  vitalstats catalog --page https://www.mhlw.go.jp/toukei/list/81-1a.html --all`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogPage, "page", "", "listing page (default: source.catalog_url from config)")
	catalogCmd.Flags().BoolVar(&catalogAll, "all", false, "include files whose name has no year and month")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	page := catalogPage
	if page == "" {
		page = cfg.Source.CatalogURL
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	p := pipeline.NewPipeline(cfg, slog.Default())
	entries, err := catalog.List(ctx, p.Getter(), page)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tMONTH\tFORMAT\tURL")
	for _, e := range entries {
		if !e.Known() {
			if catalogAll {
				fmt.Fprintf(tw, "-\t-\t%s\t%s\n", e.Format, e.URL)
			}
			continue
		}
		fmt.Fprintf(tw, "%d\t%02d\t%s\t%s\n", e.Year, e.Month, e.Format, e.URL)
	}
	return tw.Flush()
}
