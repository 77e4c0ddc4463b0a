package handlers

import (
	"log/slog"
	"net/http"

	"github.com/oxbel/ltcpay/internal/config"
	"github.com/oxbel/ltcpay/internal/models"
	"github.com/oxbel/ltcpay/internal/wallet"
)

// GetXPub handles GET /api/xpub. An optional ?path= overrides the
// default account path, for exporting a different subtree to a
// watch-only wallet.
func GetXPub(wlt *wallet.Wallet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			path = wlt.AccountPath()
		}

		xpub, err := wlt.AccountXPub(path)
		if err != nil {
			slog.Warn("xpub export failed", "path", path, "error", err)
			writeError(w, http.StatusBadRequest, config.ErrorInvalidPath, "cannot derive xpub for path "+path)
			return
		}

		writeJSON(w, http.StatusOK, models.APIResponse{
			Data: map[string]string{
				"path": path,
				"xpub": xpub,
			},
		})
	}
}
