package model

import (
	"fmt"
	"time"
)

// DateLayout is the day-precision format dates are stored in.
const DateLayout = "2006-01-02"

// Transaction represents one financial movement imported from a statement.
type Transaction struct {
	Date              time.Time
	Credit            *float64 // Money in; nil when the statement cell was empty
	Debit             *float64 // Money out; nil when the statement cell was empty
	Username          string
	Description       string // Normalized statement text
	CustomDescription string // User override; empty means none
	Account           string
	ID                int64 // Zero until persisted
}

// DedupKey identifies a transaction for import deduplication.
type DedupKey struct {
	Date        string
	Description string
	Username    string
}

// DedupKey returns the (date, description, username) triple used to decide
// whether an imported transaction already exists. Amounts and account are
// deliberately not part of it.
func (t Transaction) DedupKey() DedupKey {
	return DedupKey{
		Date:        t.Date.Format(DateLayout),
		Description: t.Description,
		Username:    t.Username,
	}
}

// SameImport reports whether t and other share a dedup key.
func (t Transaction) SameImport(other Transaction) bool {
	return t.DedupKey() == other.DedupKey()
}

// CreditAmount returns the credit or zero when absent.
func (t Transaction) CreditAmount() float64 {
	if t.Credit == nil {
		return 0
	}
	return *t.Credit
}

// DebitAmount returns the debit or zero when absent.
func (t Transaction) DebitAmount() float64 {
	if t.Debit == nil {
		return 0
	}
	return *t.Debit
}

// Net is credit minus debit.
func (t Transaction) Net() float64 {
	return t.CreditAmount() - t.DebitAmount()
}

// DisplayDescription prefers the custom description when one is set.
func (t Transaction) DisplayDescription() string {
	if t.CustomDescription != "" {
		return t.CustomDescription
	}
	return t.Description
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s credit=%s debit=%s",
		t.Date.Format(DateLayout), t.Description, formatAmount(t.Credit), formatAmount(t.Debit))
}

// Amount returns a pointer to v, for building transactions in code.
func Amount(v float64) *float64 {
	return &v
}

// Day truncates ts to midnight UTC of its calendar day.
func Day(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
