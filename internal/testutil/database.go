// Package testutil provides fixtures for tests that need a budget database
// in a specific historical shape.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
)

// LegacyRow is a plaintext transaction as the first release stored it.
// Date holds whatever text or number the old column contained.
type LegacyRow struct {
	Date        any
	Credit      *float64
	Debit       *float64
	Description string
}

// LegacyDatabase creates a version 0 database at dir/name: a plaintext
// transactions table without owners and no users table.
//
// Example:
//
//	path := testutil.LegacyDatabase(t, t.TempDir(), "budget.db",
//		testutil.LegacyRow{Date: "2024-01-05", Description: "Coffee", Debit: model.Amount(3.5)},
//	)
func LegacyDatabase(t *testing.T, dir, name string, rows ...LegacyRow) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db := open(t, path)
	defer func() { _ = db.Close() }()

	_, err := db.Exec(`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date DATE NOT NULL,
		description TEXT NOT NULL,
		credit DOUBLE,
		debit DOUBLE
	)`)
	require.NoError(t, err)

	for _, row := range rows {
		_, err := db.Exec(`INSERT INTO transactions (date, description, credit, debit) VALUES (?, ?, ?, ?)`,
			row.Date, row.Description, nullableAmount(row.Credit), nullableAmount(row.Debit))
		require.NoError(t, err)
	}

	return path
}

// OwnedUnversionedDatabase creates a database that already has a username
// column but was never stamped with a schema version, as written by the
// release between the first two schema changes. owner is stored as given.
func OwnedUnversionedDatabase(t *testing.T, dir, name, owner string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db := open(t, path)
	defer func() { _ = db.Close() }()

	_, err := db.Exec(`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(255) NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		credit TEXT,
		debit TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO transactions (username, date, description) VALUES (?, ?, ?)`,
		owner, "x", "y")
	require.NoError(t, err)

	return path
}

// Columns returns the column names of table in the database at path.
func Columns(t *testing.T, path, table string) []string {
	t.Helper()

	db := open(t, path)
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	return columns
}

// Transaction builds an unpersisted transaction for username.
func Transaction(username string, date time.Time, description string, credit, debit *float64) model.Transaction {
	return model.Transaction{
		Username:    username,
		Date:        model.Day(date),
		Description: description,
		Account:     "Checking",
		Credit:      credit,
		Debit:       debit,
	}
}

func open(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	return db
}

func nullableAmount(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
