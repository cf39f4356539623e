package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/Veraticus/budget-manager/internal/crypto"
	"github.com/Veraticus/budget-manager/internal/model"
)

// DefaultAccountName is reported for rows whose account column is null.
const DefaultAccountName = "Main account"

// UserStore reads and writes one user's transactions. Every sensitive column
// is encrypted independently under the key derived from the user's password.
type UserStore struct {
	s        *SQLiteStorage
	username string
	owner    string // username as stored in transactions
	key      crypto.Key
}

// ForUser returns a store scoped to username. It does not verify the
// password; call Login first. A wrong password yields rows whose fields
// decrypt to the fallback value.
func (s *SQLiteStorage) ForUser(username, password string) (*UserStore, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	key, err := crypto.DeriveKey(password, crypto.DefaultKeySize)
	if err != nil {
		return nil, err
	}
	return &UserStore{
		s:        s,
		username: username,
		owner:    crypto.EncryptField(username, key),
		key:      key,
	}, nil
}

// Username returns the owner of the store.
func (us *UserStore) Username() string {
	return us.username
}

const selectTransactions = `
	SELECT id, CAST(date AS TEXT), description, custom_description, account,
	       CAST(credit AS TEXT), CAST(debit AS TEXT)
	FROM transactions
	WHERE username = ?
	ORDER BY id`

// Transactions returns all of the user's transactions in insertion order.
func (us *UserStore) Transactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return us.transactionsTx(ctx, us.s.db)
}

func (us *UserStore) transactionsTx(ctx context.Context, q queryable) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, selectTransactions, us.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := us.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// Transaction returns one of the user's transactions by id.
func (us *UserStore) Transaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := us.s.db.QueryRowContext(ctx, `
		SELECT id, CAST(date AS TEXT), description, custom_description, account,
		       CAST(credit AS TEXT), CAST(debit AS TEXT)
		FROM transactions
		WHERE id = ? AND username = ?`, id, us.owner)
	txn, err := us.scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// TransactionsBefore returns transactions dated on or before date, newest first.
func (us *UserStore) TransactionsBefore(ctx context.Context, date time.Time) ([]model.Transaction, error) {
	day := model.Day(date)
	return us.filtered(ctx, func(t model.Transaction) bool {
		return !t.Date.After(day)
	})
}

// TransactionsAfter returns transactions dated on or after date, newest first.
func (us *UserStore) TransactionsAfter(ctx context.Context, date time.Time) ([]model.Transaction, error) {
	day := model.Day(date)
	return us.filtered(ctx, func(t model.Transaction) bool {
		return !t.Date.Before(day)
	})
}

// TransactionsBetween returns transactions with start <= date < end, newest
// first. An end before start matches nothing.
func (us *UserStore) TransactionsBetween(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	from, to := model.Day(start), model.Day(end)
	return us.filtered(ctx, func(t model.Transaction) bool {
		return !t.Date.Before(from) && t.Date.Before(to)
	})
}

// Dates are encrypted, so range filters run over the decrypted set.
func (us *UserStore) filtered(ctx context.Context, keep func(model.Transaction) bool) ([]model.Transaction, error) {
	all, err := us.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.Transaction, 0, len(all))
	for _, txn := range all {
		if keep(txn) {
			result = append(result, txn)
		}
	}
	SortNewestFirst(result)
	return result, nil
}

// SortNewestFirst orders transactions by date descending, keeping insertion
// order among equal dates.
func SortNewestFirst(transactions []model.Transaction) {
	slices.SortStableFunc(transactions, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
}

// Accounts returns the distinct account names of the user's transactions in
// the order they were first stored.
func (us *UserStore) Accounts(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := us.s.db.QueryContext(ctx,
		`SELECT account FROM transactions WHERE username = ? ORDER BY id`, us.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []string
	seen := make(map[string]bool)
	for rows.Next() {
		var account sql.NullString
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		name := us.decryptAccount(account)
		if !seen[name] {
			seen[name] = true
			accounts = append(accounts, name)
		}
	}
	return accounts, rows.Err()
}

// AddTransaction encrypts and stores txn, returning the assigned id.
func (us *UserStore) AddTransaction(ctx context.Context, txn model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransaction(&txn); err != nil {
		return 0, err
	}
	return us.insertTx(ctx, us.s.db, txn)
}

// UploadTransactions stores the imported candidates that are not already
// present and returns how many were inserted. A candidate is skipped when
// the store already holds at least as many transactions with its dedup key
// as the candidate list does, so importing a statement twice changes
// nothing while legitimate repeats inside one statement are kept.
func (us *UserStore) UploadTransactions(ctx context.Context, candidates []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	for i := range candidates {
		if err := validateTransaction(&candidates[i]); err != nil {
			return 0, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	tx, err := us.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := us.transactionsTx(ctx, tx)
	if err != nil {
		return 0, err
	}

	stored := make(map[model.DedupKey]int, len(existing))
	for _, txn := range existing {
		stored[txn.DedupKey()]++
	}

	wanted := make(map[model.DedupKey]int, len(candidates))
	for _, txn := range candidates {
		wanted[us.dedupKey(txn)]++
	}

	inserted := 0
	for _, txn := range candidates {
		key := us.dedupKey(txn)
		if stored[key] >= wanted[key] {
			continue
		}
		if _, err := us.insertTx(ctx, tx, txn); err != nil {
			return 0, err
		}
		stored[key]++
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upload: %w", err)
	}

	slog.Info("Uploaded transactions",
		"username", us.username,
		"candidates", len(candidates),
		"inserted", inserted)
	return inserted, nil
}

// UpdateTransactionDescription sets the custom description of one of the
// user's transactions. An empty description clears it.
func (us *UserStore) UpdateTransactionDescription(ctx context.Context, id int64, description string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := us.s.db.ExecContext(ctx,
		`UPDATE transactions SET custom_description = ? WHERE id = ? AND username = ?`,
		us.encryptOptional(description), id, us.owner)
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// ClearTransactions deletes all of the user's transactions and returns how
// many were removed.
func (us *UserStore) ClearTransactions(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := us.s.db.ExecContext(ctx, `DELETE FROM transactions WHERE username = ?`, us.owner)
	if err != nil {
		return 0, fmt.Errorf("failed to clear transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	slog.Info("Cleared transactions", "username", us.username, "rows", n)
	return n, nil
}

// dedupKey keys txn as if it were already owned by the store's user.
func (us *UserStore) dedupKey(txn model.Transaction) model.DedupKey {
	txn.Username = us.username
	return txn.DedupKey()
}

func (us *UserStore) insertTx(ctx context.Context, q queryable, txn model.Transaction) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO transactions (
			username, date, description, custom_description, account, credit, debit
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		us.owner,
		us.encrypt(txn.Date.Format(model.DateLayout)),
		us.encrypt(txn.Description),
		us.encryptOptional(txn.CustomDescription),
		us.encrypt(txn.Account),
		us.encryptAmount(txn.Credit),
		us.encryptAmount(txn.Debit),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction id: %w", err)
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (us *UserStore) scanTransaction(row scanner) (model.Transaction, error) {
	var (
		id                int64
		date, description string
		custom, account   sql.NullString
		credit, debit     sql.NullString
	)
	if err := row.Scan(&id, &date, &description, &custom, &account, &credit, &debit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn := model.Transaction{
		ID:          id,
		Username:    us.username,
		Date:        us.decryptDate(id, date),
		Description: us.decrypt(description),
		Account:     us.decryptAccount(account),
		Credit:      us.decryptAmount(credit),
		Debit:       us.decryptAmount(debit),
	}
	if custom.Valid {
		txn.CustomDescription = us.decrypt(custom.String)
	}
	return txn, nil
}

func (us *UserStore) encrypt(plaintext string) string {
	return crypto.EncryptField(plaintext, us.key)
}

func (us *UserStore) encryptOptional(plaintext string) any {
	if plaintext == "" {
		return nil
	}
	return us.encrypt(plaintext)
}

func (us *UserStore) encryptAmount(v *float64) any {
	if v == nil {
		return nil
	}
	return us.encrypt(strconv.FormatFloat(*v, 'f', -1, 64))
}

func (us *UserStore) decrypt(ciphertext string) string {
	plaintext, err := crypto.Decrypt(ciphertext, us.key)
	if err != nil {
		slog.Debug("Field decryption failed, using fallback", "username", us.username, "error", err)
		return crypto.FallbackPlaintext
	}
	return plaintext
}

func (us *UserStore) decryptAccount(v sql.NullString) string {
	if !v.Valid {
		return DefaultAccountName
	}
	return us.decrypt(v.String)
}

// decryptAmount maps null and undecryptable values to zero.
func (us *UserStore) decryptAmount(v sql.NullString) *float64 {
	plaintext := crypto.FallbackPlaintext
	if v.Valid {
		plaintext = us.decrypt(v.String)
	}
	amount, err := strconv.ParseFloat(plaintext, 64)
	if err != nil {
		slog.Debug("Amount is not numeric, using zero", "username", us.username)
		amount = 0
	}
	return model.Amount(amount)
}

func (us *UserStore) decryptDate(id int64, ciphertext string) time.Time {
	plaintext := us.decrypt(ciphertext)
	date, err := time.Parse(model.DateLayout, plaintext)
	if err != nil {
		slog.Debug("Transaction date is unreadable", "id", id, "username", us.username)
		return time.Time{}
	}
	return date
}
