package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNoBackupPath is returned when the storage has nowhere to write a backup,
// as for in-memory databases.
var ErrNoBackupPath = errors.New("no backup path configured")

// Backup copies the database file to BackupPath, replacing any previous
// backup. The WAL is checkpointed first so the copy is self-contained.
func (s *SQLiteStorage) Backup(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if s.backupPath == "" {
		return ErrNoBackupPath
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.backupPath), 0750); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := copyFile(s.dbPath, s.backupPath); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}

	if err := verifyIntegrity(s.backupPath); err != nil {
		return fmt.Errorf("backup failed integrity check: %w", err)
	}

	slog.Info("Backed up database", "path", s.backupPath)
	return nil
}

func copyFile(src, dst string) error {
	// Create temporary file first for atomic operation
	tmpDst := dst + ".tmp"

	// #nosec G304 - src is the configured database path
	source, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	// #nosec G304 - tmpDst derives from the configured backup path
	destination, err := os.OpenFile(filepath.Clean(tmpDst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		if closeErr := destination.Close(); closeErr != nil {
			slog.Error("failed to close destination file after copy error", "error", closeErr)
		}
		if rmErr := os.Remove(tmpDst); rmErr != nil {
			slog.Error("failed to remove temporary file after copy error", "error", rmErr)
		}
		return err
	}

	if err := destination.Close(); err != nil {
		if removeErr := os.Remove(tmpDst); removeErr != nil {
			slog.Error("failed to remove temporary file after close error", "error", removeErr)
		}
		return err
	}

	// Atomic rename
	return os.Rename(tmpDst, dst)
}

func verifyIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
