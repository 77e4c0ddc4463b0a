package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/db"
	"github.com/oxbel/ltcpay/internal/explorer"
	"github.com/oxbel/ltcpay/internal/models"
)

// Source is the chain-data dependency of the reconciler. *explorer.Client
// satisfies it.
type Source interface {
	AddressTransactions(ctx context.Context, address string, limit int) ([]explorer.AddressTx, error)
	Transaction(ctx context.Context, txid string) (*explorer.TxStatus, error)
}

// Reconciler periodically sweeps all deposit addresses against the
// explorer, records incoming transactions as pending deposits, and
// confirms them (crediting the user balance) once they reach the
// confirmation threshold.
type Reconciler struct {
	db       *db.DB
	source   Source
	interval time.Duration
	minConf  int
}

// New creates a reconciler. interval is the sweep period, minConf the
// confirmation count at which a deposit is credited.
func New(database *db.DB, source Source, interval time.Duration, minConf int) *Reconciler {
	return &Reconciler{
		db:       database,
		source:   source,
		interval: interval,
		minConf:  minConf,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. The
// first sweep happens immediately on start.
func (r *Reconciler) Run(ctx context.Context) {
	slog.Info("reconciler started",
		"interval", r.interval,
		"minConfirmations", r.minConf,
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("reconciler stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one full reconciliation pass: discover new transactions on
// every known address, then re-check deposits still pending. Errors on
// individual addresses are logged and skipped so one bad address cannot
// stall the sweep.
func (r *Reconciler) Sweep(ctx context.Context) {
	start := time.Now()
	discovered := 0

	err := r.db.StreamAddresses(func(addr models.DepositAddress) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := r.sweepAddress(ctx, addr)
		if err != nil {
			slog.Warn("address sweep failed, skipping until next pass",
				"userID", addr.UserID,
				"address", addr.Address,
				"error", err,
			)
			return nil
		}
		discovered += n
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("address stream failed", "error", err)
	}

	confirmed := r.recheckPending(ctx)

	slog.Info("reconciliation pass complete",
		"discovered", discovered,
		"confirmed", confirmed,
		"elapsed", time.Since(start),
	)
}

// sweepAddress fetches recent transactions for one address and upserts
// them as deposits. Existing rows only have their confirmation count
// refreshed while still pending.
func (r *Reconciler) sweepAddress(ctx context.Context, addr models.DepositAddress) (int, error) {
	var txs []explorer.AddressTx
	err := explorer.WithRetry(ctx, "address transactions", config.RetryMaxAttempts, config.RetryBaseDelay, func(ctx context.Context) error {
		var opErr error
		txs, opErr = r.source.AddressTransactions(ctx, addr.Address, config.DepositTxPageSize)
		return opErr
	})
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, tx := range txs {
		if tx.Amount <= 0 {
			continue // outgoing or zero-value, not a deposit
		}
		dep := models.Deposit{
			TxID:          tx.TxID,
			UserID:        addr.UserID,
			Address:       addr.Address,
			Amount:        tx.Amount,
			Confirmations: tx.Confirmations,
			Status:        models.DepositPending,
		}
		if err := r.db.UpsertDeposit(dep); err != nil {
			slog.Error("failed to record deposit",
				"txid", tx.TxID,
				"userID", addr.UserID,
				"error", err,
			)
			continue
		}
		recorded++
	}
	return recorded, nil
}

// recheckPending refreshes confirmation counts for pending deposits and
// confirms those that reached the threshold. Returns the number of
// deposits confirmed this pass.
func (r *Reconciler) recheckPending(ctx context.Context) int {
	pending, err := r.db.GetPendingDeposits(0)
	if err != nil {
		slog.Error("failed to load pending deposits", "error", err)
		return 0
	}

	confirmed := 0
	for _, dep := range pending {
		if ctx.Err() != nil {
			return confirmed
		}

		var status *explorer.TxStatus
		err := explorer.WithRetry(ctx, "transaction status", config.RetryMaxAttempts, config.RetryBaseDelay, func(ctx context.Context) error {
			var opErr error
			status, opErr = r.source.Transaction(ctx, dep.TxID)
			return opErr
		})
		if err != nil {
			slog.Warn("pending recheck failed, will retry next pass",
				"txid", dep.TxID,
				"error", err,
			)
			continue
		}

		if status.Confirmations < r.minConf {
			if status.Confirmations != dep.Confirmations {
				dep.Confirmations = status.Confirmations
				if err := r.db.UpsertDeposit(dep); err != nil {
					slog.Error("failed to update confirmations",
						"txid", dep.TxID,
						"error", err,
					)
				}
			}
			continue
		}

		if err := r.db.ConfirmDeposit(dep.TxID, status.Confirmations); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				// Already confirmed by a concurrent pass.
				continue
			}
			slog.Error("failed to confirm deposit",
				"txid", dep.TxID,
				"userID", dep.UserID,
				"error", err,
			)
			continue
		}
		confirmed++
		slog.Info("deposit confirmed",
			"txid", dep.TxID,
			"userID", dep.UserID,
			"amount", dep.Amount,
			"confirmations", status.Confirmations,
		)
	}
	return confirmed
}
