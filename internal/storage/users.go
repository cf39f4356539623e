package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budget-manager/internal/crypto"
	"github.com/Veraticus/budget-manager/internal/model"
)

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	username VARCHAR(25) NOT NULL,
	password VARCHAR(255) NOT NULL
)`

// Register stores a user with the HMAC digest of password. It does not check
// whether the username is already taken.
func (s *SQLiteStorage) Register(ctx context.Context, username, password string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUsername(username); err != nil {
		return err
	}
	return insertUser(ctx, s.db, username, password)
}

// Login verifies password for username. An unknown username is registered
// on the spot and the login succeeds. Every successful login brings the
// schema up to date for that user. A wrong password returns false without
// an error.
func (s *SQLiteStorage) Login(ctx context.Context, username, password string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateUsername(username); err != nil {
		return false, err
	}

	user, err := s.getUser(ctx, username)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := s.Register(ctx, username, password); err != nil {
			return false, fmt.Errorf("failed to register user: %w", err)
		}
		slog.Info("Registered new user", "username", username)
	case err != nil:
		return false, err
	case !crypto.VerifyPassword(username, password, user.Password):
		slog.Debug("Password mismatch", "username", username)
		return false, nil
	}

	if err := s.Migrate(ctx, username, password); err != nil {
		return false, fmt.Errorf("failed to migrate database: %w", err)
	}
	return true, nil
}

// getUser returns the first stored user named username.
func (s *SQLiteStorage) getUser(ctx context.Context, username string) (*model.User, error) {
	exists, err := tableExists(ctx, s.db, "users")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	user := &model.User{Username: username}
	err = s.db.QueryRowContext(ctx,
		`SELECT password FROM users WHERE username = ? ORDER BY rowid LIMIT 1`, username).Scan(&user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func insertUser(ctx context.Context, q queryable, username, password string) error {
	if _, err := q.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, crypto.PasswordDigest(username, password))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func userExists(ctx context.Context, q queryable, username string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}
