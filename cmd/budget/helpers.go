package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/ledger"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/storage"
)

// session is an open database with a logged-in user.
type session struct {
	db   *storage.SQLiteStorage
	user *storage.UserStore
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

func (a *app) openDatabase() (*storage.SQLiteStorage, error) {
	db, err := storage.NewSQLiteStorage(a.cfg.DatabasePath, storage.WithBackupPath(a.cfg.BackupPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// login opens the database and logs the configured user in, registering the
// user on first use and migrating older databases.
func (a *app) login(ctx context.Context) (*session, error) {
	if a.cfg.Username == "" || a.cfg.Password == "" {
		return nil, common.NewUserError(
			"set --user and --password, or BUDGET_USER_NAME and BUDGET_USER_PASSWORD",
			common.ErrMissingConfig)
	}

	db, err := a.openDatabase()
	if err != nil {
		return nil, err
	}

	var ok bool
	err = common.WithRetry(ctx, func() error {
		var loginErr error
		ok, loginErr = db.Login(ctx, a.cfg.Username, a.cfg.Password)
		return loginErr
	}, common.DefaultRetryOptions())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if !ok {
		_ = db.Close()
		return nil, common.NewUserError("Login failed for "+a.cfg.Username, common.ErrLoginFailed)
	}

	user, err := db.ForUser(a.cfg.Username, a.cfg.Password)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &session{db: db, user: user}, nil
}

// filterFlags are the listing flags shared by list, chart and browse.
type filterFlags struct {
	account string
	after   string
	before  string
	credits bool
	debits  bool
}

func (f *filterFlags) register(cmd *cobra.Command, withDirection bool) {
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "only this account (default: all accounts)")
	cmd.Flags().StringVar(&f.after, "after", "", "only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.before, "before", "", "only transactions before this date (YYYY-MM-DD)")
	if withDirection {
		cmd.Flags().BoolVar(&f.credits, "credits", false, "only credits")
		cmd.Flags().BoolVar(&f.debits, "debits", false, "only debits")
	}
}

func (f *filterFlags) filter() (ledger.Filter, error) {
	after, err := parseDate(f.after)
	if err != nil {
		return ledger.Filter{}, err
	}
	before, err := parseDate(f.before)
	if err != nil {
		return ledger.Filter{}, err
	}

	scope := ledger.AllAccounts()
	if f.account != "" {
		scope = ledger.OnlyAccount(f.account)
	}
	return ledger.Filter{
		After:     after,
		Before:    before,
		Scope:     scope,
		Direction: ledger.DirectionFromFlags(f.credits, f.debits),
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), err)
	}
	return &t, nil
}

func writeLine(w io.Writer, s string) {
	if _, err := fmt.Fprintln(w, s); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}
