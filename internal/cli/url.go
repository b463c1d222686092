package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ppiankov/vitalstats/internal/pipeline"
	"github.com/spf13/cobra"
)

// urlCmd represents the url command
var urlCmd = &cobra.Command{
	Use:   "url <year> <month>",
	Short: "Print the address of a prompt spreadsheet",
	Long: `Print the download address of the prompt spreadsheet published for
the given year and month. Nothing is downloaded.

Example:
  vitalstats url 2022 3
  vitalstats url 2003 12`,
	Args: cobra.ExactArgs(2),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("invalid month %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p := pipeline.NewPipeline(cfg, slog.Default())
	fmt.Fprintln(cmd.OutOrStdout(), p.URL(year, month))
	return nil
}
