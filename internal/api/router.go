package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantgoal/walletd/internal/services/wallet"
)

// NewRouter constructs the chi router with all wallet endpoints registered.
func NewRouter(svc *wallet.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/wallet", func(r chi.Router) {
		r.Get("/balance", h.GetBalanceHandler)
		r.Get("/transactions", h.GetTransactionsHandler)
		r.Post("/spend", h.SpendHandler)
		r.Post("/earn", h.EarnHandler)
		r.Post("/reset", h.ResetHandler)
		r.Post("/reconcile", h.ReconcileHandler)
	})

	return r
}
