package handlers

import (
	"log/slog"
	"net/http"

	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/db"
	"github.com/oxbel/ltcpay/internal/models"
)

// ListDeposits handles GET /api/users/{userID}/deposits, newest first.
func ListDeposits(database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(r)
		if err != nil || userID < 0 {
			writeError(w, http.StatusBadRequest, config.ErrorInvalidUser, "userID must be a non-negative integer")
			return
		}

		deposits, err := database.GetDepositsByUser(userID)
		if err != nil {
			slog.Error("failed to fetch deposits", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorDatabase, "failed to fetch deposits")
			return
		}
		if deposits == nil {
			deposits = []models.Deposit{}
		}

		writeJSON(w, http.StatusOK, models.APIResponse{Data: deposits})
	}
}
