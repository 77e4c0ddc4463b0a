package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxbel/ltcpay/internal/models"
)

// UpsertAddress records the derived deposit address for a user. Re-inserting
// the same (user, address) pair is a no-op, so issuing is idempotent.
func (d *DB) UpsertAddress(userID int64, addressIndex uint32, address string) error {
	_, err := d.conn.Exec(
		`INSERT INTO addresses (user_id, address_index, address)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, address) DO NOTHING`,
		userID, addressIndex, address,
	)
	if err != nil {
		return fmt.Errorf("upsert address for user %d: %w", userID, err)
	}

	slog.Debug("address stored", "userID", userID, "index", addressIndex, "address", address)
	return nil
}

// GetAddressByUser returns the deposit address issued to a user, or ErrNotFound.
func (d *DB) GetAddressByUser(userID int64) (*models.DepositAddress, error) {
	var a models.DepositAddress
	err := d.conn.QueryRow(
		"SELECT user_id, address_index, address, created_at FROM addresses WHERE user_id = ? ORDER BY created_at LIMIT 1",
		userID,
	).Scan(&a.UserID, &a.AddressIndex, &a.Address, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("address for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get address for user %d: %w", userID, err)
	}
	return &a, nil
}

// GetUserByAddress resolves a deposit address back to its user, or ErrNotFound.
func (d *DB) GetUserByAddress(address string) (int64, error) {
	var userID int64
	err := d.conn.QueryRow(
		"SELECT user_id FROM addresses WHERE address = ?",
		address,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("address %s: %w", address, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get user by address %s: %w", address, err)
	}
	return userID, nil
}

// StreamAddresses iterates every issued deposit address via a callback,
// avoiding loading the whole table into memory.
func (d *DB) StreamAddresses(fn func(addr models.DepositAddress) error) error {
	rows, err := d.conn.Query(
		"SELECT user_id, address_index, address, created_at FROM addresses ORDER BY user_id",
	)
	if err != nil {
		return fmt.Errorf("query addresses for streaming: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.DepositAddress
		if err := rows.Scan(&a.UserID, &a.AddressIndex, &a.Address, &a.CreatedAt); err != nil {
			return fmt.Errorf("scan address row during streaming: %w", err)
		}
		if err := fn(a); err != nil {
			return fmt.Errorf("stream callback error: %w", err)
		}
	}

	return rows.Err()
}

// CountAddresses returns the number of issued deposit addresses.
func (d *DB) CountAddresses() (int, error) {
	var count int
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM addresses").Scan(&count); err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return count, nil
}
