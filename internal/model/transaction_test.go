package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_DedupKey(t *testing.T) {
	base := Transaction{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Username:    "alice",
		Description: "CARREFOUR",
		Account:     "Main",
		Debit:       Amount(12.5),
	}

	tests := []struct {
		name     string
		other    func(Transaction) Transaction
		wantSame bool
	}{
		{
			name:     "different amounts are the same import",
			other:    func(t Transaction) Transaction { t.Debit = Amount(99); t.Credit = Amount(1); return t },
			wantSame: true,
		},
		{
			name:     "different account is the same import",
			other:    func(t Transaction) Transaction { t.Account = "Savings"; return t },
			wantSame: true,
		},
		{
			name:     "time of day is ignored",
			other:    func(t Transaction) Transaction { t.Date = t.Date.Add(15 * time.Hour); return t },
			wantSame: true,
		},
		{
			name:     "different date",
			other:    func(t Transaction) Transaction { t.Date = t.Date.AddDate(0, 0, 1); return t },
			wantSame: false,
		},
		{
			name:     "different description",
			other:    func(t Transaction) Transaction { t.Description = "LECLERC"; return t },
			wantSame: false,
		},
		{
			name:     "different user",
			other:    func(t Transaction) Transaction { t.Username = "bob"; return t },
			wantSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSame, base.SameImport(tt.other(base)))
		})
	}
}

func TestTransaction_Amounts(t *testing.T) {
	txn := Transaction{Credit: Amount(100), Debit: nil}
	assert.Equal(t, 100.0, txn.CreditAmount())
	assert.Equal(t, 0.0, txn.DebitAmount())
	assert.Equal(t, 100.0, txn.Net())

	txn = Transaction{Credit: Amount(10), Debit: Amount(25)}
	assert.Equal(t, -15.0, txn.Net())
}

func TestTransaction_DisplayDescription(t *testing.T) {
	txn := Transaction{Description: "PRLV SEPA EDF"}
	assert.Equal(t, "PRLV SEPA EDF", txn.DisplayDescription())

	txn.CustomDescription = "Electricity"
	assert.Equal(t, "Electricity", txn.DisplayDescription())
}
