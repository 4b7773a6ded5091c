package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"expensewise/internal/core"
)

var flagReplace bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample expenses",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&flagReplace, "replace", false, "Clear existing expenses first")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, out io.Writer) error {
		existing, err := a.session.Expenses.ListExpenses(ctx, core.DefaultSortState())
		if err != nil {
			return err
		}
		if len(existing) > 0 && !flagReplace {
			return fmt.Errorf("%s already holds %d expenses; use --replace to overwrite", flagDB, len(existing))
		}
		if err := a.session.Expenses.ClearExpenses(ctx); err != nil {
			return err
		}
		samples := core.SampleExpenses()
		// Add prepends, so insert oldest first to keep the sample order.
		for i := len(samples) - 1; i >= 0; i-- {
			e := samples[i]
			if _, err := a.session.Expenses.CreateExpense(ctx, core.ExpenseInput{
				Description: e.Description,
				Amount:      e.Amount,
				Category:    e.Category,
				Date:        e.Date,
			}); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Seeded %d sample expenses into %s\n", len(samples), flagDB)
		return nil
	})
}
