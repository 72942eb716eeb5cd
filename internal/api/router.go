package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veritrade/validator/internal/report"
	"github.com/veritrade/validator/internal/repository"
	"github.com/veritrade/validator/internal/session"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	tradeRepo *repository.TradeRepo,
	sessRepo *repository.SessionRepo,
	discRepo *repository.DiscrepancyRepo,
	svc *session.Service,
	reports *report.Builder,
) http.Handler {
	h := &Handlers{
		tradeRepo: tradeRepo,
		sessRepo:  sessRepo,
		discRepo:  discRepo,
		svc:       svc,
		reports:   reports,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		// Trade records.
		r.Post("/trades", h.CreateTrade)
		r.Get("/trades", h.ListTrades)
		r.Get("/trades/{tradeID}", h.GetTrade)

		// Validation sessions.
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions", h.ListSessions)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/validate", h.ValidateSession)
		r.Get("/sessions/{id}/discrepancies", h.GetSessionDiscrepancies)
		r.Post("/sessions/{id}/decision", h.SubmitDecision)
		r.Get("/sessions/{id}/report", h.GetSessionReport)

		// Discrepancies.
		r.Get("/discrepancies", h.ListDiscrepancies)
		r.Get("/discrepancies/summary", h.GetDiscrepancySummary)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
