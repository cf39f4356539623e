package statement

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTransactions_SingleGroup(t *testing.T) {
	txns := ParseTransactions("A;B;C;D;01/01/2024;Coffee Shop;5,00;", "alice", "Main")

	require.Len(t, txns, 1)
	txn := txns[0]
	assert.Equal(t, date(2024, 1, 1), txn.Date)
	assert.Equal(t, "Coffee Shop", txn.Description)
	require.NotNil(t, txn.Debit)
	assert.Equal(t, 5.0, *txn.Debit)
	assert.Nil(t, txn.Credit)
	assert.Equal(t, int64(0), txn.ID)
	assert.Equal(t, "alice", txn.Username)
	assert.Equal(t, "Main", txn.Account)
	assert.Empty(t, txn.CustomDescription)
}

func TestParseTransactions_TrailingFragmentDropped(t *testing.T) {
	raw := "A;B;C;D;" +
		"01/01/2024;Coffee;5,00;;" +
		"02/01/2024;Salary;;1500,00;" +
		"03/01/2024;Bread"

	txns := ParseTransactions(raw, "alice", "Main")

	require.Len(t, txns, 2)
	assert.Equal(t, "Coffee", txns[0].Description)
	assert.Equal(t, "Salary", txns[1].Description)
	require.NotNil(t, txns[1].Credit)
	assert.Equal(t, 1500.0, *txns[1].Credit)
	assert.Nil(t, txns[1].Debit)
}

func TestParseTransactions_EmptyTokenResync(t *testing.T) {
	// The ";;" leaves an empty token where the next date is expected.
	raw := "A;B;C;D;01/01/2024;Coffee;5,00;1,00;;02/01/2024;Bread;2,50;0"

	txns := ParseTransactions(raw, "alice", "Main")

	require.Len(t, txns, 2)
	assert.Equal(t, date(2024, 1, 2), txns[1].Date)
	assert.Equal(t, "Bread", txns[1].Description)
	require.NotNil(t, txns[1].Debit)
	assert.Equal(t, 2.5, *txns[1].Debit)
	require.NotNil(t, txns[1].Credit)
	assert.Equal(t, 0.0, *txns[1].Credit)
}

func TestParseTransactions_BadDateSkipsOneToken(t *testing.T) {
	raw := "A;B;C;D;stray;01/01/2024;Coffee;5,00;"

	txns := ParseTransactions(raw, "alice", "Main")

	require.Len(t, txns, 1)
	assert.Equal(t, date(2024, 1, 1), txns[0].Date)
	assert.Equal(t, "Coffee", txns[0].Description)
}

func TestParseTransactions_Normalization(t *testing.T) {
	raw := "h1;h2;h3;h4;\r\n15/02/2024;\"CB  CARREFOUR\r\n   MARKET\t 12/02\";12,34\r\n;\r\n"

	txns := ParseTransactions(raw, "alice", "Main")

	require.Len(t, txns, 1)
	assert.Equal(t, date(2024, 2, 15), txns[0].Date)
	assert.Equal(t, "CB CARREFOUR MARKET 12/02", txns[0].Description)
	require.NotNil(t, txns[0].Debit)
	assert.InDelta(t, 12.34, *txns[0].Debit, 1e-9)
	assert.Nil(t, txns[0].Credit)
}

func TestParseTransactions_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty input", raw: ""},
		{name: "header only", raw: "A;B;C;D"},
		{name: "header and separators", raw: "A;B;C;D;;;;"},
		{name: "no dates at all", raw: "A;B;C;D;x;y;z;w;v;u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseTransactions(tt.raw, "alice", "Main"))
		})
	}
}

func TestParseTransactions_InfersAccount(t *testing.T) {
	raw := "Compte Courant n° 0001234;;;\n" +
		"Date;Libellé;Débit;Crédit;\n" +
		"05/03/2024;LOYER;650,00;;\n"

	txns := ParseTransactions(raw, "alice", "")

	require.Len(t, txns, 1)
	assert.Equal(t, "Compte Courant", txns[0].Account)
	assert.Equal(t, "LOYER", txns[0].Description)
	assert.Equal(t, 650.0, txns[0].DebitAmount())
}

func TestParseTransactions_RealisticStatement(t *testing.T) {
	raw := strings.Join([]string{
		"Mon compte carte Visa;;;",
		"Date;Libellé;Débit euros;Crédit euros;",
		"03/01/2024;\"PAIEMENT PAR CARTE",
		"  BOULANGERIE\";4,20;;",
		"04/01/2024;\"VIREMENT SALAIRE\";;2100,00;",
		"04/01/2024;\"PAIEMENT PAR CARTE BOULANGERIE\";4,20;;",
		"",
	}, "\r\n")

	txns := ParseTransactions(raw, "alice", "")

	require.Len(t, txns, 3)
	assert.Equal(t, "Mon compte", txns[0].Account)
	assert.Equal(t, "PAIEMENT PAR CARTE BOULANGERIE", txns[0].Description)
	assert.Equal(t, "VIREMENT SALAIRE", txns[1].Description)
	assert.Equal(t, 2100.0, txns[1].CreditAmount())
	assert.Nil(t, txns[1].Debit)
	assert.False(t, txns[0].SameImport(txns[2]), "different dates are different imports")
}

func TestParseTransactions_SingleDigitDates(t *testing.T) {
	raw := "A;B;C;D;" +
		"1/2/2024;Bread;1,00;;" +
		"05/2/2024;Milk;0,90;;" +
		"31/12/2023;Rent;;"

	txns := ParseTransactions(raw, "alice", "Main")

	require.Len(t, txns, 3)
	assert.Equal(t, date(2024, 2, 1), txns[0].Date)
	assert.Equal(t, date(2024, 2, 5), txns[1].Date)
	assert.Equal(t, date(2023, 12, 31), txns[2].Date)
}

func TestParseAccountName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "carte marker", raw: "Compte Joint carte 1234\nrest", want: "Compte Joint"},
		{name: "numero marker", raw: "Livret A n° 98765;;", want: "Livret A"},
		{name: "first matching line wins", raw: "header\nCCP n° 1\nOther carte 2", want: "CCP"},
		{name: "carriage return lines", raw: "Relevé du mois\rCCP n° 1\rOther carte 2", want: "CCP"},
		{name: "crlf lines", raw: "Relevé du mois\r\nCCP n° 1\r\n", want: "CCP"},
		{name: "marker at line start", raw: "carte bleue", want: ""},
		{name: "no match", raw: "Date;Libellé\n01/01/2024;x", want: UnknownAccount},
		{name: "empty", raw: "", want: UnknownAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAccountName(tt.raw))
		})
	}
}

func TestParseTransactions_Deterministic(t *testing.T) {
	raw := "A;B;C;D;01/01/2024;Coffee;5,00;;02/01/2024;Tea;3,00;"

	first := ParseTransactions(raw, "alice", "Main")
	second := ParseTransactions(raw, "alice", "Main")

	assert.Equal(t, first, second)
	assert.IsType(t, []model.Transaction{}, first)
}
