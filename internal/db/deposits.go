package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oxbel/ltcpay/internal/models"
)

// UpsertDeposit records a newly observed deposit or refreshes the
// confirmation count of a known one. Status transitions are handled by
// ConfirmDeposit; this never touches a confirmed row's status.
func (d *DB) UpsertDeposit(dep models.Deposit) error {
	_, err := d.conn.Exec(
		`INSERT INTO deposits (txid, user_id, address, amount, confirmations, status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(txid) DO UPDATE SET confirmations = excluded.confirmations
		 WHERE deposits.status = 'pending'`,
		dep.TxID, dep.UserID, dep.Address, dep.Amount, dep.Confirmations, string(models.DepositPending),
	)
	if err != nil {
		return fmt.Errorf("upsert deposit %s: %w", dep.TxID, err)
	}

	slog.Debug("deposit upserted",
		"txid", dep.TxID,
		"userID", dep.UserID,
		"amount", dep.Amount,
		"confirmations", dep.Confirmations,
	)
	return nil
}

// GetDeposit returns a deposit by txid, or ErrNotFound.
func (d *DB) GetDeposit(txid string) (*models.Deposit, error) {
	var dep models.Deposit
	var confirmedAt sql.NullString
	err := d.conn.QueryRow(
		`SELECT txid, user_id, address, amount, confirmations, status, created_at, confirmed_at
		 FROM deposits WHERE txid = ?`,
		txid,
	).Scan(&dep.TxID, &dep.UserID, &dep.Address, &dep.Amount, &dep.Confirmations, &dep.Status, &dep.CreatedAt, &confirmedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deposit %s: %w", txid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deposit %s: %w", txid, err)
	}
	dep.ConfirmedAt = confirmedAt.String
	return &dep, nil
}

// GetPendingDeposits returns up to limit pending deposits, oldest
// first. A non-positive limit returns all of them.
func (d *DB) GetPendingDeposits(limit int) ([]models.Deposit, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	rows, err := d.conn.Query(
		`SELECT txid, user_id, address, amount, confirmations, status, created_at
		 FROM deposits WHERE status = 'pending' ORDER BY created_at LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending deposits: %w", err)
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		var dep models.Deposit
		if err := rows.Scan(&dep.TxID, &dep.UserID, &dep.Address, &dep.Amount, &dep.Confirmations, &dep.Status, &dep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending deposit: %w", err)
		}
		deposits = append(deposits, dep)
	}

	return deposits, rows.Err()
}

// GetDepositsByUser returns all deposits recorded for a user, newest first.
func (d *DB) GetDepositsByUser(userID int64) ([]models.Deposit, error) {
	rows, err := d.conn.Query(
		`SELECT txid, user_id, address, amount, confirmations, status, created_at
		 FROM deposits WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query deposits for user %d: %w", userID, err)
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		var dep models.Deposit
		if err := rows.Scan(&dep.TxID, &dep.UserID, &dep.Address, &dep.Amount, &dep.Confirmations, &dep.Status, &dep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deposit row: %w", err)
		}
		deposits = append(deposits, dep)
	}

	return deposits, rows.Err()
}

// ConfirmDeposit flips a pending deposit to confirmed and credits the
// user's balance in a single transaction. Returns ErrNotFound if the
// deposit is missing or already confirmed, which makes the operation
// safe to call twice without double-crediting.
func (d *DB) ConfirmDeposit(txid string, confirmations int) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin confirm transaction: %w", err)
	}

	var userID, amount int64
	err = tx.QueryRow(
		"SELECT user_id, amount FROM deposits WHERE txid = ? AND status = 'pending'",
		txid,
	).Scan(&userID, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return fmt.Errorf("pending deposit %s: %w", txid, ErrNotFound)
	}
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("select pending deposit %s: %w", txid, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		"UPDATE deposits SET status = 'confirmed', confirmations = ?, confirmed_at = ? WHERE txid = ?",
		confirmations, now, txid,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("confirm deposit %s: %w", txid, err)
	}

	if _, err := tx.Exec(
		"UPDATE users SET balance = balance + ? WHERE user_id = ?",
		amount, userID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("credit user %d for deposit %s: %w", userID, txid, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit confirm for %s: %w", txid, err)
	}

	slog.Info("deposit confirmed",
		"txid", txid,
		"userID", userID,
		"amount", amount,
		"confirmations", confirmations,
	)
	return nil
}
