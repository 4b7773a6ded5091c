package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard totals",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, out io.Writer) error {
		db, err := a.session.Dashboard.Dashboard(ctx)
		if err != nil {
			return err
		}
		f := a.formatter

		fmt.Fprintf(out, "Total spent   %s (%d expenses)\n", f.Money(db.Total), db.Count)
		fmt.Fprintf(out, "%-13s %s (%d expenses)\n", f.MonthLabel(db.Month), f.Money(db.Month.Total), db.Month.Count)
		if len(db.ByCategory) == 0 {
			fmt.Fprintln(out, "\nNo expenses recorded yet.")
			return nil
		}

		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "CATEGORY\tTOTAL\tSHARE\t\t")
		for _, c := range db.ByCategory {
			share := 0.0
			if db.Total > 0 {
				share = c.Total / db.Total
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", c.Category, f.Money(c.Total), f.Percent(share), bar(share, 20))
		}
		return tw.Flush()
	})
}

// bar renders share as a left-aligned run of block characters.
func bar(share float64, width int) string {
	n := int(share*float64(width) + 0.5)
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}
