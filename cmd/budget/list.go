package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/ledger"
)

func (a *app) listCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Long: `List transactions with their credit, debit and fluctuation totals.

--after is inclusive. --before is inclusive on its own and exclusive when
combined with --after. When both --credits and --debits are given, only
credits are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			summary, err := ledger.NewService(s.user).Summarize(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summary.Transactions) == 0 {
				writeLine(out, cli.FormatInfo("No transactions match "+filter.Scope.String()))
				return nil
			}
			writeLine(out, cli.FormatTitle(filter.Scope.String()+", "+filter.Direction.String()))
			writeLine(out, cli.RenderTransactions(summary.Transactions))
			writeLine(out, cli.RenderTotals(summary.Totals))
			return nil
		},
	}
	flags.register(cmd, true)

	return cmd
}

func (a *app) accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts in the order they were first imported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			accounts, err := ledger.NewService(s.user).Accounts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(accounts) == 0 {
				writeLine(out, cli.FormatInfo("No accounts yet, import a statement first"))
				return nil
			}
			for _, account := range accounts {
				writeLine(out, account)
			}
			return nil
		},
	}
}
