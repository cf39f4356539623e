package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/storage"
)

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe ID [TEXT]",
		Short: "Set a custom description on a transaction",
		Long: `Set the description shown for a transaction in place of the bank's.
Omit TEXT to restore the bank's description.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid transaction id %q", args[0]), err)
			}
			var text string
			if len(args) == 2 {
				text = args[1]
			}

			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			err = s.user.UpdateTransactionDescription(cmd.Context(), id, text)
			if errors.Is(err, storage.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("No transaction %d", id), err)
			}
			if err != nil {
				return err
			}

			txn, err := s.user.Transaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Transaction %d: %s", id, txn.DisplayDescription())))
			return nil
		},
	}
}
