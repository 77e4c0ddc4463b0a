package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/db"
	"github.com/oxbel/ltcpay/internal/models"
	"github.com/oxbel/ltcpay/internal/wallet"
)

// GetOrCreateAddress handles POST /api/users/{userID}/address.
//
// Derivation is deterministic, so calling this twice for the same user
// returns the same address. The user row and the address row are
// created on first call.
func GetOrCreateAddress(database *db.DB, wlt *wallet.Wallet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(r)
		if err != nil || userID < 0 {
			slog.Warn("invalid userID parameter", "error", err)
			writeError(w, http.StatusBadRequest, config.ErrorInvalidUser, "userID must be a non-negative integer")
			return
		}

		slog.Info("deposit address requested",
			"userID", userID,
			"remoteAddr", r.RemoteAddr,
		)

		// Reuse the stored address when the user already has one.
		if existing, err := database.GetAddressByUser(userID); err == nil {
			writeJSON(w, http.StatusOK, models.APIResponse{Data: existing})
			return
		} else if !errors.Is(err, db.ErrNotFound) {
			slog.Error("failed to look up address", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorDatabase, "failed to look up address")
			return
		}

		address, err := wlt.AddressForUser(userID)
		if err != nil {
			slog.Error("address derivation failed",
				"userID", userID,
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, config.ErrorAddressGeneration, "failed to derive address")
			return
		}

		if err := database.EnsureUser(userID); err != nil {
			slog.Error("failed to create user", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorDatabase, "failed to create user")
			return
		}

		index := wallet.UserIndex(userID)
		if err := database.UpsertAddress(userID, index, address); err != nil {
			slog.Error("failed to store address",
				"userID", userID,
				"address", address,
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, config.ErrorDatabase, "failed to store address")
			return
		}

		slog.Info("deposit address assigned",
			"userID", userID,
			"addressIndex", index,
			"address", address,
		)

		writeJSON(w, http.StatusCreated, models.APIResponse{
			Data: models.DepositAddress{
				UserID:       userID,
				AddressIndex: index,
				Address:      address,
			},
		})
	}
}
