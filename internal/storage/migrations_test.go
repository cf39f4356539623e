package storage

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/testutil"
)

func openExisting(t *testing.T, path string) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMigrate_FromVersionZero(t *testing.T) {
	ctx := context.Background()
	epoch := time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local).UnixMilli()
	path := testutil.LegacyDatabase(t, t.TempDir(), "budget.db",
		testutil.LegacyRow{Date: "2024-01-05", Description: "Coffee Shop", Debit: model.Amount(3.5)},
		testutil.LegacyRow{Date: epoch, Description: "Salary", Credit: model.Amount(100)},
	)
	store := openExisting(t, path)

	ok, err := store.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.True(t, ok)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	_, err = os.Stat(store.BackupPath())
	require.NoError(t, err, "backup is written before migrating")

	t.Run("every row has an owner and an account", func(t *testing.T) {
		var missing int
		require.NoError(t, store.db.QueryRow(
			`SELECT COUNT(*) FROM transactions WHERE username IS NULL OR account IS NULL`).Scan(&missing))
		assert.Zero(t, missing)
	})

	t.Run("user row exists", func(t *testing.T) {
		user, err := store.getUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("rows are no longer plaintext", func(t *testing.T) {
		var plaintext int
		require.NoError(t, store.db.QueryRow(
			`SELECT COUNT(*) FROM transactions WHERE description IN ('Coffee Shop', 'Salary')`).Scan(&plaintext))
		assert.Zero(t, plaintext)
	})

	t.Run("rows decrypt for the migrating user", func(t *testing.T) {
		us, err := store.ForUser("alice", "pw1")
		require.NoError(t, err)

		txns, err := us.Transactions(ctx)
		require.NoError(t, err)
		require.Len(t, txns, 2)

		assert.Equal(t, day(2024, 1, 5), txns[0].Date)
		assert.Equal(t, "Coffee Shop", txns[0].Description)
		assert.InDelta(t, 3.5, txns[0].DebitAmount(), 1e-9)
		assert.InDelta(t, 0, txns[0].CreditAmount(), 1e-9)
		assert.Equal(t, MigratedAccountName, txns[0].Account)
		assert.Empty(t, txns[0].CustomDescription)

		assert.Equal(t, day(2024, 2, 10), txns[1].Date)
		assert.InDelta(t, 100, txns[1].CreditAmount(), 1e-9)
	})

	t.Run("backup still holds the version zero data", func(t *testing.T) {
		assert.NotContains(t, testutil.Columns(t, store.BackupPath(), "transactions"), "username")
	})
}

func TestMigrate_OwnedUnversionedDatabase(t *testing.T) {
	ctx := context.Background()
	path := testutil.OwnedUnversionedDatabase(t, t.TempDir(), "budget.db", "already-encrypted")
	store := openExisting(t, path)

	ok, err := store.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.True(t, ok)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	assert.Contains(t, testutil.Columns(t, path, "transactions"), "account")
	assert.Contains(t, testutil.Columns(t, path, "transactions"), "custom_description")

	// Existing rows are not re-encrypted and belong to someone else.
	var description string
	var account *string
	require.NoError(t, store.db.QueryRow(
		`SELECT description, account FROM transactions WHERE username = 'already-encrypted'`).Scan(&description, &account))
	assert.Equal(t, "y", description)
	assert.Nil(t, account)
}

func TestMigrate_FreshDatabaseSkipsBackup(t *testing.T) {
	store := createTestStorage(t)

	require.NoError(t, store.Migrate(context.Background(), "alice", "pw1"))

	_, err := os.Stat(store.BackupPath())
	assert.True(t, os.IsNotExist(err))
}

func TestMigrate_CurrentDatabaseIsUntouched(t *testing.T) {
	ctx := context.Background()
	path := testutil.LegacyDatabase(t, t.TempDir(), "budget.db",
		testutil.LegacyRow{Date: "2024-01-05", Description: "Coffee Shop", Debit: model.Amount(3.5)},
	)

	store := openExisting(t, path)
	require.NoError(t, store.Migrate(ctx, "alice", "pw1"))
	require.NoError(t, os.Remove(store.BackupPath()))
	require.NoError(t, store.Close())

	reopened := openExisting(t, path)
	require.NoError(t, reopened.Migrate(ctx, "alice", "pw1"))

	_, err := os.Stat(reopened.BackupPath())
	assert.True(t, os.IsNotExist(err), "no backup when nothing is pending")
}

func TestMigrationSteps_AreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := testutil.LegacyDatabase(t, t.TempDir(), "budget.db",
		testutil.LegacyRow{Date: "2024-01-05", Description: "Coffee Shop", Debit: model.Amount(3.5)},
	)
	store := openExisting(t, path)
	require.NoError(t, store.Migrate(ctx, "alice", "pw1"))

	creds := NewCredentials("alice", "pw1")
	for _, migration := range migrations {
		t.Run(migration.Description, func(t *testing.T) {
			tx, err := store.db.BeginTx(ctx, nil)
			require.NoError(t, err)
			defer func() { _ = tx.Rollback() }()

			assert.NoError(t, migration.Up(ctx, tx, creds))
			require.NoError(t, tx.Commit())
		})
	}

	us, err := store.ForUser("alice", "pw1")
	require.NoError(t, err)
	txns, err := us.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Coffee Shop", txns[0].Description)

	var users int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users))
	assert.Equal(t, 1, users)
}

func TestMigrate_SecondUserOnlyGetsAccount(t *testing.T) {
	ctx := context.Background()
	path := testutil.LegacyDatabase(t, t.TempDir(), "budget.db",
		testutil.LegacyRow{Date: "2024-01-05", Description: "Coffee Shop", Debit: model.Amount(3.5)},
	)
	store := openExisting(t, path)

	_, err := store.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	ok, err := store.Login(ctx, "bob", "pw2")
	require.NoError(t, err)
	assert.True(t, ok)

	bob, err := store.ForUser("bob", "pw2")
	require.NoError(t, err)
	txns, err := bob.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestNormalizeLegacyDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "iso date", in: "2024-03-01", want: "2024-03-01"},
		{name: "iso timestamp", in: "2024-03-01 00:00:00", want: "2024-03-01"},
		{name: "rfc3339", in: "2024-03-01T00:00:00Z", want: "2024-03-01"},
		{name: "epoch millis", in: strconv.FormatInt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local).UnixMilli(), 10), want: "2024-03-01"},
		{name: "statement format", in: "01/03/2024", want: "2024-03-01"},
		{name: "padded", in: " 2024-03-01 ", want: "2024-03-01"},
		{name: "unknown kept", in: "yesterday", want: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLegacyDate(tt.in))
		})
	}
}

func TestNormalizeLegacyDate_LocalMidnight(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	for _, d := range []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, paris),
		time.Date(2024, 7, 14, 0, 0, 0, 0, paris),
	} {
		ms := strconv.FormatInt(d.UnixMilli(), 10)
		assert.Equal(t, d.Format(model.DateLayout), normalizeLegacyDateIn(ms, paris), ms)
	}
	assert.Equal(t, "2024-01-02", normalizeLegacyDateIn("1704150000000", paris))
}
