package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/ledger"
	"github.com/Veraticus/budget-manager/internal/tui"
	"github.com/Veraticus/budget-manager/internal/tui/themes"
)

func (a *app) browseCmd() *cobra.Command {
	var (
		flags filterFlags
		theme string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Long: `Open an interactive table of transactions.

Cycle accounts with a, toggle credits and debits with d and edit the
selected transaction's description with e.`,
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

			return tui.Run(cmd.Context(), ledger.NewService(s.user), s.user,
				tui.WithDateRange(filter.After, filter.Before),
				tui.WithTheme(themes.ByName(theme)),
			)
		},
	}
	cmd.Flags().StringVar(&flags.after, "after", "", "only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.before, "before", "", "only transactions before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, mocha)")

	return cmd
}
