package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/storage"
)

func (a *app) migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Bring the database up to the current schema version.

Migrating re-encrypts legacy rows with the logged-in user's key, so it runs
on behalf of that user. The database is backed up before any change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if status {
				db, err := a.openDatabase()
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				current, err := db.SchemaVersion(cmd.Context())
				if err != nil {
					return err
				}
				writeLine(out, fmt.Sprintf("Schema version %d (latest %d)", current, storage.ExpectedSchemaVersion))
				if current < storage.ExpectedSchemaVersion {
					writeLine(out, cli.FormatWarning("Migrations pending, run 'budget migrate'"))
				}
				return nil
			}

			slog.Info("Starting database migration", "database", a.cfg.DatabasePath)

			// Login migrates as part of signing in.
			s, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			current, err := s.db.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			writeLine(out, cli.FormatSuccess(fmt.Sprintf("Database is at schema version %d", current)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "show the schema version without migrating")

	return cmd
}

func (a *app) backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the database to its backup file",
		Long: `Copy the database to the backup file. Restoring is manual: replace the
database file with the backup while budget is not running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.Backup(cmd.Context()); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), cli.FormatSuccess(cli.FolderIcon+" Backed up to "+db.BackupPath()))
			return nil
		},
	}
}
