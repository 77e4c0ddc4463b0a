package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/db"
	"github.com/oxbel/ltcpay/internal/models"
)

// GetBalance handles GET /api/users/{userID}/balance.
func GetBalance(database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserID(r)
		if err != nil || userID < 0 {
			writeError(w, http.StatusBadRequest, config.ErrorInvalidUser, "userID must be a non-negative integer")
			return
		}

		user, err := database.GetUser(userID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, config.ErrorInvalidUser, "unknown user")
			return
		}
		if err != nil {
			slog.Error("failed to fetch user", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorDatabase, "failed to fetch balance")
			return
		}

		writeJSON(w, http.StatusOK, models.APIResponse{Data: user})
	}
}
