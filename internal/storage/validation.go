// Package storage provides the encrypted SQLite persistence layer and the
// schema migrations for the budget database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/budget-manager/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrUsernameTooLong = fmt.Errorf("username cannot exceed %d characters", model.MaxUsernameLength)
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("amounts cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateUsername(username string) error {
	if err := validateString(username, "username"); err != nil {
		return err
	}
	if utf8.RuneCountInString(username) > model.MaxUsernameLength {
		return fmt.Errorf("%w: %q", ErrUsernameTooLong, username)
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: date", ErrEmptyString)
	}
	if (txn.Credit != nil && *txn.Credit < 0) || (txn.Debit != nil && *txn.Debit < 0) {
		return ErrInvalidAmount
	}
	return nil
}
