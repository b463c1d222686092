package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/ppiankov/vitalstats/internal/pipeline"
	"github.com/ppiankov/vitalstats/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	promptYearTo  int
	promptMonthTo int
	promptOut     string
	promptTimeout time.Duration
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Download the prompt monthly statistics as one table",
	Long: `Download every prompt spreadsheet needed to cover --from up to the
last published month and print one deduplicated table sorted by category
and month.

When --to or --month-to is not given, the last published month is today
minus the publication lag (--months-offset months and --days-offset days).

Example:
  vitalstats prompt --from 2010 --to 2011 --month-to 12
  vitalstats prompt --lang japanese --format json --out vital.json
  vitalstats prompt --ignore-error -v`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)

	// Range flags
	promptCmd.Flags().Int("from", 2005, "first year in the output")
	promptCmd.Flags().IntVar(&promptYearTo, "to", 0, "last year to download (default: derived from the publication lag)")
	promptCmd.Flags().IntVar(&promptMonthTo, "month-to", 0, "last month of --to (default: derived from the publication lag)")
	promptCmd.Flags().Int("months-offset", 2, "publication lag, months part")
	promptCmd.Flags().Int("days-offset", 23, "publication lag, days part")

	// Output flags
	promptCmd.Flags().String("lang", "english", "label language (english, japanese)")
	promptCmd.Flags().Bool("ignore-error", false, "skip spreadsheets that cannot be downloaded")
	promptCmd.Flags().String("format", "csv", "output format (csv, json, yaml, markdown, pretty)")
	promptCmd.Flags().StringVarP(&promptOut, "out", "o", "", "output file (default: stdout)")
	promptCmd.Flags().DurationVar(&promptTimeout, "timeout", 30*time.Minute, "overall timeout")

	_ = viper.BindPFlag("prompt.year_from", promptCmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("prompt.months_offset", promptCmd.Flags().Lookup("months-offset"))
	_ = viper.BindPFlag("prompt.days_offset", promptCmd.Flags().Lookup("days-offset"))
	_ = viper.BindPFlag("prompt.lang", promptCmd.Flags().Lookup("lang"))
	_ = viper.BindPFlag("prompt.ignore_error", promptCmd.Flags().Lookup("ignore-error"))
	_ = viper.BindPFlag("output.format", promptCmd.Flags().Lookup("format"))
}

func runPrompt(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if promptMonthTo != 0 && (promptMonthTo < 1 || promptMonthTo > 12) {
		return fmt.Errorf("--month-to must be between 1 and 12, got %d", promptMonthTo)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, promptTimeout)
	defer cancel()

	opts := pipeline.DefaultOptions(cfg.Prompt)
	opts.Verbose = cfg.Output.Verbose

	// A zero offset in Options means the configured lag, so the end month
	// is fixed here where an explicit --months-offset 0 is still visible.
	last := pipeline.LastPublished(time.Now(), cfg.Prompt.MonthsOffset, cfg.Prompt.DaysOffset)
	opts.YearTo, opts.MonthTo = last.Year(), int(last.Month())
	if promptYearTo != 0 {
		opts.YearTo = promptYearTo
	}
	if promptMonthTo != 0 {
		opts.MonthTo = promptMonthTo
	}

	table, err := pipeline.NewPipeline(cfg, slog.Default()).ReadPrompt(ctx, opts)
	if err != nil {
		return fmt.Errorf("read prompt: %w", err)
	}

	if cfg.Output.Verbose {
		printSummary(cmd.ErrOrStderr(), table, opts.Lang)
	}

	var w io.Writer = cmd.OutOrStdout()
	if promptOut != "" {
		f, err := os.Create(promptOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		w = f
	}

	if err := render.Write(w, table, format); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, table model.Table, lang model.Lang) {
	if len(table) == 0 {
		fmt.Fprintln(w, "No records")
		return
	}
	first, last := table.YearSpan()

	counts := table.CountByCategory()
	fmt.Fprintf(w, "%d records, %d-%d\n", len(table), first, last)
	for _, c := range model.Categories() {
		label := c.Label(lang)
		fmt.Fprintf(w, "  %-16s %d\n", label, counts[label])
	}
}
