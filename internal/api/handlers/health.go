package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oxbel/ltcpay/internal/config"
)

// HealthHandler returns a handler for the GET /api/health endpoint.
// explorerState reports the circuit breaker state; nil when no explorer
// is wired (e.g. in tests).
func HealthHandler(cfg *config.Config, version string, explorerState func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("health check requested", "remoteAddr", r.RemoteAddr)

		explorer := "disabled"
		if explorerState != nil {
			explorer = explorerState()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "ok",
			"version":  version,
			"network":  cfg.Network,
			"explorer": explorer,
		})
	}
}
