package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in, registering the user on first use",
		Long: `Log in with the configured user name and password.

An unknown user is registered with the given password. Databases written by
older versions are backed up and migrated to the current schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			accounts, err := s.user.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Logged in as %s (%d accounts)", s.user.Username(), len(accounts))))
			return nil
		},
	}
}
