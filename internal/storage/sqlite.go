package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage owns the budget database file: the transactions and users
// tables and the schema version stamp.
type SQLiteStorage struct {
	db         *sql.DB
	dbPath     string
	backupPath string
	fresh      bool
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithBackupPath overrides where Migrate copies the database before
// changing it.
func WithBackupPath(path string) Option {
	return func(s *SQLiteStorage) {
		if path != "" {
			s.backupPath = path
		}
	}
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath. A
// database that did not exist yet is created directly at the latest schema
// version.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	inMemory := dbPath == ":memory:"
	fresh := inMemory
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			fresh = true
		} else if err != nil {
			return nil, fmt.Errorf("failed to stat database: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer, one file; extra connections would also split an in-memory
	// database into several independent ones.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{
		db:         db,
		dbPath:     dbPath,
		backupPath: defaultBackupPath(dbPath),
		fresh:      fresh,
	}
	for _, opt := range opts {
		opt(s)
	}

	if fresh {
		if err := s.createSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// BackupPath returns where pre-migration backups are written.
func (s *SQLiteStorage) BackupPath() string {
	return s.backupPath
}

// SchemaVersion returns the stamped schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return schemaVersion(ctx, s.db)
}

func (s *SQLiteStorage) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(255) NOT NULL,
			date TEXT NOT NULL,
			description TEXT NOT NULL,
			custom_description TEXT NULL,
			account VARCHAR(255),
			credit TEXT,
			debit TEXT
		)`,
		createUsersTable,
		fmt.Sprintf("PRAGMA user_version = %d", ExpectedSchemaVersion),
	}
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return tx.Commit()
}

func defaultBackupPath(dbPath string) string {
	if dbPath == ":memory:" {
		return ""
	}
	ext := filepath.Ext(dbPath)
	return strings.TrimSuffix(dbPath, ext) + "_backup" + ext
}

func schemaVersion(ctx context.Context, q queryable) (int, error) {
	var version int
	if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

func tableExists(ctx context.Context, q queryable, table string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return count > 0, nil
}

func columnExists(ctx context.Context, q queryable, table, column string) (bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}

type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
