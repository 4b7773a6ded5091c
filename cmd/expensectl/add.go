package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expensewise/internal/core"
)

var (
	flagCategory string
	flagDate     string
)

var addCmd = &cobra.Command{
	Use:   "add <amount> <description...>",
	Short: "Record an expense",
	Example: `  expensectl add 12.50 Lunch with colleagues --category Food
  expensectl add 450 Flight --category Travel --date 2024-06-28`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagCategory, "category", "c", string(core.Other), "Expense category")
	addCmd.Flags().StringVar(&flagDate, "date", "", "Date as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	in, err := parseAddArgs(args, flagCategory, flagDate, time.Now())
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app, out io.Writer) error {
		e, err := a.session.Expenses.CreateExpense(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s: %s %s on %s (%s)\n", e.ID, a.formatter.Money(e.Amount), e.Category, e.Date, e.Description)
		return nil
	})
}

func parseAddArgs(args []string, category, date string, now time.Time) (core.ExpenseInput, error) {
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return core.ExpenseInput{}, fmt.Errorf("amount %q: %w", args[0], err)
	}
	cat, err := core.ParseCategory(category)
	if err != nil {
		return core.ExpenseInput{}, fmt.Errorf("category %q: %w", category, err)
	}
	d := core.DateOf(now)
	if date != "" {
		if d, err = core.ParseDate(date); err != nil {
			return core.ExpenseInput{}, fmt.Errorf("date %q: %w", date, err)
		}
	}
	in := core.ExpenseInput{
		Description: strings.Join(args[1:], " "),
		Amount:      amount,
		Category:    cat,
		Date:        d,
	}
	return in, in.Validate()
}
