package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/statement"
)

// Statement formats accepted by import.
const (
	formatCSV = "csv"
	formatOFX = "ofx"
)

type importOptions struct {
	account string
	format  string
	dryRun  bool
}

// importResult tallies one import run.
type importResult struct {
	parsed   int
	inserted int
	skipped  int // files without transactions
}

func (a *app) importCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import bank statements",
		Long: `Import semicolon-separated bank exports or OFX/QFX files.

Transactions already stored are skipped, so re-importing an overlapping
statement only adds what is new. Identical rows within one statement are
all kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.account, "account", "a", "", "account name (default: inferred from the statement)")
	cmd.Flags().StringVar(&opts.format, "format", "", "statement format: csv or ofx (default: by file extension)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and report without saving")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, files []string, opts importOptions) error {
	s, err := a.login(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
	ctx := handler.HandleInterrupts(cmd.Context())

	progress := cli.NewImportProgress(cmd.ErrOrStderr(), len(files))
	prompter := cli.NewPrompter(a.in, cmd.ErrOrStderr())
	var result importResult

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		progress.Describe(filepath.Base(file))

		txns, err := a.parseStatement(file, opts, s.user.Username())
		if errors.Is(err, common.ErrNoTransactions) {
			slog.Warn("Skipping statement", "file", file, "reason", err)
			result.skipped++
			progress.Step()
			continue
		}
		if err != nil {
			progress.Finish()
			return fmt.Errorf("%s: %w", file, err)
		}
		if opts.account == "" && txns[0].Account == statement.UnknownAccount {
			askAccount(ctx, prompter, file, txns)
		}
		result.parsed += len(txns)

		if !opts.dryRun {
			n, err := upload(ctx, s, txns)
			if err != nil {
				progress.Finish()
				common.LogError(err, "Import failed", common.Fields{"file": file, "transactions": len(txns)})
				return fmt.Errorf("%s: %w", file, err)
			}
			result.inserted += n
			slog.Info("Imported statement", "file", file, "parsed", len(txns), "inserted", n)
		}
		progress.Step()
	}
	progress.Finish()

	if handler.WasInterrupted() {
		return ctx.Err()
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		writeLine(out, cli.FormatInfo(fmt.Sprintf("Parsed %d transactions from %d files (dry run, nothing saved)", result.parsed, len(files)-result.skipped)))
		return nil
	}
	writeLine(out, cli.RenderBox("Import Complete",
		fmt.Sprintf("Imported %d new transactions (%d already stored)", result.inserted, result.parsed-result.inserted)))
	if result.skipped > 0 {
		writeLine(out, cli.FormatWarning(fmt.Sprintf("%d files contained no transactions", result.skipped)))
	}
	return nil
}

// askAccount names the account of a statement whose header does not.
func askAccount(ctx context.Context, prompter *cli.Prompter, file string, txns []model.Transaction) {
	name, err := prompter.Ask(ctx, fmt.Sprintf("\nAccount name for %s", filepath.Base(file)))
	if err != nil {
		slog.Warn("No account name given", "file", file, "account", statement.UnknownAccount, "error", err)
		return
	}
	if name == "" {
		return
	}
	for i := range txns {
		txns[i].Account = name
	}
}

func upload(ctx context.Context, s *session, txns []model.Transaction) (int, error) {
	var inserted int
	err := common.WithRetry(ctx, func() error {
		n, err := s.user.UploadTransactions(ctx, txns)
		inserted = n
		return err
	}, common.DefaultRetryOptions())
	return inserted, err
}

// parseStatement reads one statement file into unsaved transactions.
func (a *app) parseStatement(path string, opts importOptions, username string) ([]model.Transaction, error) {
	format, err := detectFormat(path, opts.format)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	switch format {
	case formatOFX:
		// #nosec G304 - the path is chosen by the user importing the statement
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open statement: %w", err)
		}
		defer func() { _ = f.Close() }()

		if txns, err = statement.ParseOFX(f, username, opts.account); err != nil {
			return nil, err
		}
	default:
		text, err := statement.ReadFile(path, a.cfg.ImportEncoding)
		if err != nil {
			return nil, err
		}
		txns = statement.ParseTransactions(text, username, opts.account)
	}

	if len(txns) == 0 {
		return nil, common.ErrNoTransactions
	}
	return txns, nil
}

func detectFormat(path, requested string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case formatCSV:
		return formatCSV, nil
	case formatOFX, "qfx":
		return formatOFX, nil
	case "":
	default:
		return "", common.NewUserError(fmt.Sprintf("unknown format %q, expected csv or ofx", requested), common.ErrUnknownFormat)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return formatOFX, nil
	default:
		return formatCSV, nil
	}
}
