package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/budget-manager/internal/crypto"
	"github.com/Veraticus/budget-manager/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// MigratedAccountName is assigned to rows that predate per-account imports.
const MigratedAccountName = "Main Account"

// Credentials carry the logging-in user into a migration step. Legacy rows
// are encrypted under this user's key.
type Credentials struct {
	Username string
	Password string
	Key      crypto.Key
}

// NewCredentials derives the field key for username and password.
func NewCredentials(username, password string) Credentials {
	return Credentials{
		Username: username,
		Password: password,
		Key:      crypto.MustDeriveKey(password),
	}
}

func (c Credentials) encrypt(plaintext string) string {
	return crypto.EncryptField(plaintext, c.Key)
}

// Migration represents a database schema migration. Every step checks the
// live schema before changing it, so re-running a step is harmless.
type Migration struct {
	Up          func(context.Context, *sql.Tx, Credentials) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Add per-user ownership and encrypt legacy rows",
		Up:          migrateOwnership,
	},
	{
		Version:     2,
		Description: "Add custom descriptions and accounts",
		Up:          migrateAccounts,
	},
}

// Migrate brings an existing database up to ExpectedSchemaVersion on behalf
// of username. The database file is copied to the backup path before the
// first pending step runs; there is no automatic rollback beyond the
// per-step SQL transaction, so the backup is the recovery path.
func (s *SQLiteStorage) Migrate(ctx context.Context, username, password string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUsername(username); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := schemaVersion(ctx, s.db)
	if err != nil {
		return err
	}

	if s.fresh || currentVersion >= ExpectedSchemaVersion {
		slog.Debug("Database schema is current", "version", currentVersion, "fresh", s.fresh)
		return s.verifySchemaVersion(ctx)
	}

	if err := s.Backup(ctx); err != nil {
		return fmt.Errorf("failed to back up database before migration: %w", err)
	}

	creds := NewCredentials(username, password)

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(ctx, tx, creds); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	return s.verifySchemaVersion(ctx)
}

func (s *SQLiteStorage) verifySchemaVersion(ctx context.Context) error {
	finalVersion, err := schemaVersion(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}
	return nil
}

// migrateOwnership upgrades the unversioned single-user layout. Databases that
// already carry a username column were written by a release that encrypted
// rows but never stamped a version; those only need the users table.
func migrateOwnership(ctx context.Context, tx *sql.Tx, creds Credentials) error {
	// The unversioned layout, in case the file exists but was never initialized.
	_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date DATE NOT NULL,
		description TEXT NOT NULL,
		credit DOUBLE,
		debit DOUBLE
	)`)
	if err != nil {
		return fmt.Errorf("failed to ensure transactions table: %w", err)
	}

	if err := ensureUser(ctx, tx, creds); err != nil {
		return err
	}

	hasUsername, err := columnExists(ctx, tx, "transactions", "username")
	if err != nil {
		return err
	}
	if hasUsername {
		slog.Info("Transactions already carry owners, skipping encryption step")
		return nil
	}

	// Every legacy row is re-encrypted under the current user's key. Rows that
	// belonged to anyone else become unreadable to them.
	legacy, err := loadLegacyRows(ctx, tx)
	if err != nil {
		return err
	}
	if len(legacy) > 0 {
		slog.Warn("Encrypting legacy transactions under the current user's key",
			"username", creds.Username,
			"rows", len(legacy))
	}

	owner := strings.ReplaceAll(creds.encrypt(creds.Username), "'", "''")
	// #nosec G201 - the default is base64 ciphertext with quotes escaped
	alter := fmt.Sprintf(`ALTER TABLE transactions ADD COLUMN username VARCHAR(255) NOT NULL DEFAULT '%s'`, owner)
	if _, err := tx.ExecContext(ctx, alter); err != nil {
		return fmt.Errorf("failed to add username column: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE transactions SET credit = ?, debit = ?, description = ?, date = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range legacy {
		_, err := stmt.ExecContext(ctx,
			encryptNullable(creds, row.credit),
			encryptNullable(creds, row.debit),
			creds.encrypt(row.description),
			creds.encrypt(normalizeLegacyDate(row.date)),
			row.id,
		)
		if err != nil {
			return fmt.Errorf("failed to encrypt transaction %d: %w", row.id, err)
		}
	}

	return nil
}

// migrateAccounts adds the custom description and account columns and
// assigns the current user's existing rows to MigratedAccountName.
func migrateAccounts(ctx context.Context, tx *sql.Tx, creds Credentials) error {
	columns := []struct {
		name string
		ddl  string
	}{
		{name: "custom_description", ddl: `ALTER TABLE transactions ADD COLUMN custom_description TEXT NULL`},
		{name: "account", ddl: `ALTER TABLE transactions ADD COLUMN account VARCHAR(255)`},
	}

	for _, col := range columns {
		exists, err := columnExists(ctx, tx, "transactions", col.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.ExecContext(ctx, col.ddl); err != nil {
			return fmt.Errorf("failed to add %s column: %w", col.name, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET account = ? WHERE username = ? AND account IS NULL`,
		creds.encrypt(MigratedAccountName), creds.encrypt(creds.Username))
	if err != nil {
		return fmt.Errorf("failed to backfill accounts: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Info("Assigned existing transactions to default account",
			"account", MigratedAccountName,
			"rows", n)
	}
	return nil
}

func ensureUser(ctx context.Context, tx *sql.Tx, creds Credentials) error {
	if _, err := tx.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	exists, err := userExists(ctx, tx, creds.Username)
	if err != nil || exists {
		return err
	}
	return insertUser(ctx, tx, creds.Username, creds.Password)
}

type legacyRow struct {
	credit      sql.NullString
	debit       sql.NullString
	description string
	date        string
	id          int64
}

func loadLegacyRows(ctx context.Context, tx *sql.Tx) ([]legacyRow, error) {
	// CAST keeps the driver from coercing DATE and DOUBLE columns.
	rows, err := tx.QueryContext(ctx, `
		SELECT id, CAST(date AS TEXT), description, CAST(credit AS TEXT), CAST(debit AS TEXT)
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var legacy []legacyRow
	for rows.Next() {
		var row legacyRow
		if err := rows.Scan(&row.id, &row.date, &row.description, &row.credit, &row.debit); err != nil {
			return nil, fmt.Errorf("failed to scan legacy transaction: %w", err)
		}
		legacy = append(legacy, row)
	}
	return legacy, rows.Err()
}

func encryptNullable(creds Credentials, v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return creds.encrypt(v.String)
}

var legacyDateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// normalizeLegacyDate rewrites whatever the old schema held (ISO text or
// epoch milliseconds) as a day-precision date. Unrecognized values are kept.
// Epoch values were written as local midnight, so they are read in time.Local.
func normalizeLegacyDate(raw string) string {
	return normalizeLegacyDateIn(raw, time.Local)
}

func normalizeLegacyDateIn(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).In(loc).Format(model.DateLayout)
	}
	for _, layout := range legacyDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format(model.DateLayout)
		}
	}
	return raw
}
