package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/storage"
)

// Store is the subset of a user's transaction store the ledger reads from.
type Store interface {
	Transactions(ctx context.Context) ([]model.Transaction, error)
	TransactionsBefore(ctx context.Context, date time.Time) ([]model.Transaction, error)
	TransactionsAfter(ctx context.Context, date time.Time) ([]model.Transaction, error)
	TransactionsBetween(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	Accounts(ctx context.Context) ([]string, error)
}

// Service composes store queries with account, date and direction filters.
type Service struct {
	store Store
}

// NewService creates a ledger over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Accounts returns the user's accounts in first-seen order.
func (s *Service) Accounts(ctx context.Context) ([]string, error) {
	return s.store.Accounts(ctx)
}

// Transactions resolves the date bounds through the store, then keeps the
// rows in scope and in the requested direction, newest first.
func (s *Service) Transactions(ctx context.Context, f Filter) ([]model.Transaction, error) {
	dated, err := s.dated(ctx, f.After, f.Before)
	if err != nil {
		return nil, err
	}

	result := make([]model.Transaction, 0, len(dated))
	for _, txn := range dated {
		if f.Scope.Matches(txn.Account) && f.Direction.Keep(txn) {
			result = append(result, txn)
		}
	}
	storage.SortNewestFirst(result)
	return result, nil
}

func (s *Service) dated(ctx context.Context, after, before *time.Time) ([]model.Transaction, error) {
	var (
		txns []model.Transaction
		err  error
	)
	switch {
	case after != nil && before != nil:
		txns, err = s.store.TransactionsBetween(ctx, *after, *before)
	case before != nil:
		txns, err = s.store.TransactionsBefore(ctx, *before)
	case after != nil:
		txns, err = s.store.TransactionsAfter(ctx, *after)
	default:
		txns, err = s.store.Transactions(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txns, nil
}

// Summary is the filtered list together with its totals.
type Summary struct {
	Transactions []model.Transaction
	Totals       Totals
}

// Summarize runs Transactions and totals the result.
func (s *Service) Summarize(ctx context.Context, f Filter) (*Summary, error) {
	txns, err := s.Transactions(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Summary{Transactions: txns, Totals: Sum(txns)}, nil
}

// Series returns one daily series per account in scope. Direction is
// ignored; charts always show net movement.
func (s *Service) Series(ctx context.Context, f Filter) ([]Series, error) {
	accounts := []string{f.Scope.Account()}
	if f.Scope.IsAll() {
		var err error
		if accounts, err = s.store.Accounts(ctx); err != nil {
			return nil, fmt.Errorf("failed to load accounts: %w", err)
		}
	}

	dated, err := s.dated(ctx, f.After, f.Before)
	if err != nil {
		return nil, err
	}

	series := make([]Series, 0, len(accounts))
	for _, account := range accounts {
		scope := OnlyAccount(account)
		var rows []model.Transaction
		for _, txn := range dated {
			if scope.Matches(txn.Account) {
				rows = append(rows, txn)
			}
		}
		series = append(series, Series{Account: account, Points: DailySeries(rows)})
	}
	return series, nil
}
