package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensewise/internal/core"
)

var (
	flagSort string
	flagDir  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&flagSort, "sort", string(core.SortByDate), "Sort key: id, date, category, amount, description")
	listCmd.Flags().StringVar(&flagDir, "dir", string(core.Descending), "Sort direction: asc or desc")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	key, err := core.ParseSortKey(flagSort)
	if err != nil {
		return err
	}
	dir, err := core.ParseSortDirection(flagDir)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app, out io.Writer) error {
		items, err := a.session.Expenses.ListExpenses(ctx, core.SortState{Key: key, Direction: dir})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No expenses recorded yet.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, e := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, a.formatter.Money(e.Amount), e.Description)
		}
		return tw.Flush()
	})
}
