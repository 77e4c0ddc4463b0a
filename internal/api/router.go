package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/oxbel/ltcpay/internal/api/handlers"
	"github.com/oxbel/ltcpay/internal/api/middleware"
	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/db"
	"github.com/oxbel/ltcpay/internal/wallet"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter creates and configures the Chi router with all middleware and routes.
// explorerState feeds the health endpoint; pass nil if the explorer is disabled.
func NewRouter(database *db.DB, wlt *wallet.Wallet, cfg *config.Config, explorerState func() string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogging)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler(cfg, Version, explorerState))
		r.Get("/xpub", handlers.GetXPub(wlt))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/address", handlers.GetOrCreateAddress(database, wlt))
			r.Get("/balance", handlers.GetBalance(database))
			r.Get("/deposits", handlers.ListDeposits(database))
		})
	})

	slog.Info("router initialized", "network", cfg.Network)

	return r
}
