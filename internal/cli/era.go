package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/vitalstats/internal/wareki"
	"github.com/spf13/cobra"
)

var eraReverse bool

// eraCmd represents the era command
var eraCmd = &cobra.Command{
	Use:   "era <label>...",
	Short: "Convert Japanese era dates to Gregorian years",
	Long: `Convert era-based year labels as printed in the spreadsheets
(昭和61年, H1, 令和元年, full-width digits) to Gregorian years.
With --reverse, convert Gregorian years to era labels.

Example:
  vitalstats era 昭和61年 H1 令和２年
  vitalstats era --reverse 1989 2019`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEra,
}

func init() {
	rootCmd.AddCommand(eraCmd)
	eraCmd.Flags().BoolVar(&eraReverse, "reverse", false, "convert Gregorian years to era labels")
}

func runEra(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		if eraReverse {
			year, err := strconv.Atoi(strings.TrimSpace(wareki.Fold(arg)))
			if err != nil {
				return fmt.Errorf("invalid year %q", arg)
			}
			fmt.Fprintf(out, "%d\t%s\n", year, wareki.Label(year))
			continue
		}

		year, err := wareki.ToYear(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%d\n", arg, year)
	}
	return nil
}
