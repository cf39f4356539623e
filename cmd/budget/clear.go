package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
)

func (a *app) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all of your transactions",
		Long: `Delete every transaction of the logged-in user. Other users' transactions
and the user account itself are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.login(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			txns, err := s.user.Transactions(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				writeLine(out, cli.FormatInfo("No transactions found. Nothing to clear."))
				return nil
			}

			if !yes {
				prompter := cli.NewPrompter(a.in, out)
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete all %d transactions of %s?", len(txns), s.user.Username()))
				if err != nil {
					return err
				}
				if !ok {
					writeLine(out, cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			n, err := s.user.ClearTransactions(ctx)
			if err != nil {
				return err
			}
			writeLine(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d transactions", n)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
