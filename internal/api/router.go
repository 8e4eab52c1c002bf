package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SuperFreelas/google-ads-gateway/internal/observability"
	"github.com/SuperFreelas/google-ads-gateway/internal/upstream"
)

func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// must outlast the upstream call deadline
	r.Use(middleware.Timeout(upstream.CallTimeout + 5*time.Second))

	r.Route("/api/google-ads", func(r chi.Router) {
		r.Get("/accounts", h.Accounts)
		r.Get("/campaigns/{customer_id}", h.Campaigns)
		r.Get("/performance/{customer_id}", h.Performance)
		r.Post("/update-bid-budget", h.UpdateBidBudget)
		r.Post("/update-bidding-strategy", h.UpdateBiddingStrategy)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
