// Package ledger answers the questions the front ends ask of a user's
// transactions: which rows match the current account, date and direction
// filters, what they add up to, and how the balance moved day by day.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/budget-manager/internal/model"
)

// Scope selects transactions by account. The zero value matches every
// account.
type Scope struct {
	account string
	only    bool
}

// AllAccounts matches every account.
func AllAccounts() Scope {
	return Scope{}
}

// OnlyAccount matches transactions whose account is exactly name.
func OnlyAccount(name string) Scope {
	return Scope{account: name, only: true}
}

// IsAll reports whether the scope matches every account.
func (s Scope) IsAll() bool {
	return !s.only
}

// Account returns the selected account, or "" for AllAccounts.
func (s Scope) Account() string {
	return s.account
}

// Matches reports whether account falls within the scope.
func (s Scope) Matches(account string) bool {
	return !s.only || account == s.account
}

func (s Scope) String() string {
	if !s.only {
		return "all accounts"
	}
	return s.account
}

// Direction restricts transactions to money in, money out, or both.
type Direction int

// Directions.
const (
	Both Direction = iota
	CreditsOnly
	DebitsOnly
)

// DirectionFromFlags maps the two toggles to a Direction. When both are set,
// credits win.
func DirectionFromFlags(onlyCredits, onlyDebits bool) Direction {
	switch {
	case onlyCredits:
		return CreditsOnly
	case onlyDebits:
		return DebitsOnly
	default:
		return Both
	}
}

// ParseDirection accepts "all", "credits" or "debits".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "both":
		return Both, nil
	case "credits", "credit", "in":
		return CreditsOnly, nil
	case "debits", "debit", "out":
		return DebitsOnly, nil
	default:
		return Both, fmt.Errorf("unknown direction %q", s)
	}
}

// Keep reports whether txn passes the direction filter. A credit-only row
// has a non-zero credit and no debit, and the reverse for debits.
func (d Direction) Keep(txn model.Transaction) bool {
	switch d {
	case CreditsOnly:
		return txn.CreditAmount() != 0 && txn.DebitAmount() == 0
	case DebitsOnly:
		return txn.DebitAmount() != 0 && txn.CreditAmount() == 0
	default:
		return true
	}
}

// Next cycles Both, CreditsOnly, DebitsOnly.
func (d Direction) Next() Direction {
	return (d + 1) % 3
}

func (d Direction) String() string {
	switch d {
	case CreditsOnly:
		return "credits"
	case DebitsOnly:
		return "debits"
	default:
		return "all"
	}
}

// Filter is the UI-level selection applied to a user's transactions. Nil
// bounds are open. After is inclusive; Before is inclusive when alone and
// exclusive when combined with After.
type Filter struct {
	After     *time.Time
	Before    *time.Time
	Scope     Scope
	Direction Direction
}
