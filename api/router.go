package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(s.cfg.JWTSecret))

		r.Post("/api/deposits", s.handleDeposit)
		r.Get("/api/balance", s.handleGetBalance)
		r.Get("/api/ledger", s.handleGetLedger)

		r.Post("/api/predictions", s.handlePlacePrediction)
		r.Get("/api/predictions", s.handleListPredictions)

		r.Post("/api/withdrawals/preview", s.handlePreviewWithdrawalFee)
		r.Post("/api/withdrawals", s.handleRequestWithdrawal)

		r.Get("/api/subscription", s.handleGetTier)
		r.Post("/api/subscription", s.handleSubscribe)

		r.Post("/api/account/close", s.handleCloseAccount)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly)

			r.Post("/api/admin/predictions/{id}/settle", s.handleSettlePrediction)
			r.Post("/api/admin/withdrawals/{id}/resolve", s.handleResolveWithdrawal)
			r.Get("/api/admin/metrics", s.handleMetrics)
			r.Post("/api/admin/bonus-grants", s.handleGrantBonuses)
		})
	})

	return r
}
