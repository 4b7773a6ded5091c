package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var flagIncome string

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask for budgeting advice",
	Args:  cobra.NoArgs,
	RunE:  runAdvise,
}

func init() {
	adviseCmd.Flags().StringVar(&flagIncome, "income", "", "Monthly income")
	_ = adviseCmd.MarkFlagRequired("income")
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, out io.Writer) error {
		result, err := a.session.Advice.Request(ctx, flagIncome)
		if err != nil {
			if n := a.session.Advice.State().Notice; n != nil {
				return fmt.Errorf("%s: %s", n.Title, n.Message)
			}
			return err
		}
		fmt.Fprintf(out, "%s\n\n", result.Summary)
		for i, r := range result.Recommendations {
			fmt.Fprintf(out, "%d. %s\n", i+1, r)
		}
		return nil
	})
}
