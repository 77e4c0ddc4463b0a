package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxbel/ltcpay/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// EnsureUser creates the user row if it does not already exist.
func (d *DB) EnsureUser(userID int64) error {
	_, err := d.conn.Exec(
		"INSERT INTO users (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING",
		userID,
	)
	if err != nil {
		return fmt.Errorf("ensure user %d: %w", userID, err)
	}
	return nil
}

// GetUser returns a user row, or ErrNotFound.
func (d *DB) GetUser(userID int64) (*models.User, error) {
	var u models.User
	err := d.conn.QueryRow(
		"SELECT user_id, balance, created_at FROM users WHERE user_id = ?",
		userID,
	).Scan(&u.UserID, &u.Balance, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &u, nil
}

// GetBalance returns the user's ledger balance in litoshis, or ErrNotFound.
func (d *DB) GetBalance(userID int64) (int64, error) {
	var balance int64
	err := d.conn.QueryRow(
		"SELECT balance FROM users WHERE user_id = ?",
		userID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// CreditBalance adds amount litoshis to the user's balance.
func (d *DB) CreditBalance(userID int64, amount int64) error {
	res, err := d.conn.Exec(
		"UPDATE users SET balance = balance + ? WHERE user_id = ?",
		amount, userID,
	)
	if err != nil {
		return fmt.Errorf("credit balance for user %d: %w", userID, err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("credit balance: user %d: %w", userID, ErrNotFound)
	}

	slog.Info("balance credited", "userID", userID, "amount", amount)
	return nil
}
