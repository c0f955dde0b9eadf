package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rl1809/invenedu/internal/metrics"
	"github.com/rl1809/invenedu/internal/port"
)

type HTTPHandler struct {
	ledger     Ledger
	categories Categories
	engine     Engine
	queries    Queries
	users      Directory
	guard      port.RequestGuard
	pinger     Pinger
}

func NewHTTPHandler(ledger Ledger, categories Categories, engine Engine, queries Queries, users Directory, guard port.RequestGuard) *HTTPHandler {
	return &HTTPHandler{
		ledger:     ledger,
		categories: categories,
		engine:     engine,
		queries:    queries,
		users:      users,
		guard:      guard,
	}
}

// WithPinger makes /health report store reachability.
func (h *HTTPHandler) WithPinger(p Pinger) *HTTPHandler {
	h.pinger = p
	return h
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(metrics.Middleware)
	r.Use(requestLogger)

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/items", h.SearchItems)
		r.Get("/items/{id}", h.GetItem)
		r.Get("/categories", h.ListCategories)
		r.Get("/me", h.Me)
		r.Get("/me/dashboard", h.MyDashboard)
		r.Get("/me/issuances", h.MyIssuances)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)

			r.Route("/items", func(r chi.Router) {
				r.Post("/", h.CreateItem)
				r.Get("/low-stock", h.LowStockItems)
				r.Get("/out-of-stock", h.OutOfStockItems)
				r.Put("/{id}", h.UpdateItem)
				r.Delete("/{id}", h.DeleteItem)
				r.Post("/{id}/adjust", h.AdjustQuantity)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", h.CreateCategory)
				r.Get("/{id}", h.GetCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})

			r.Route("/issuances", func(r chi.Router) {
				r.Get("/", h.SearchIssuances)
				r.Post("/", h.Issue)
				r.Get("/overdue", h.OverdueIssuances)
				r.Get("/{id}", h.GetIssuance)
				r.Patch("/{id}", h.UpdateIssuance)
				r.Post("/{id}/return", h.MarkReturned)
				r.Post("/{id}/lost", h.MarkLost)
			})

			r.Get("/statistics", h.Statistics)
			r.Get("/dashboard", h.AdminDashboard)

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Get("/users/{userID}", h.GetUser)

			r.Get("/reports/inventory.pdf", h.InventoryReportPDF)
			r.Get("/reports/issuances.pdf", h.IssuanceReportPDF)
			r.Get("/reports/inventory.csv", h.InventoryReport)
			r.Get("/reports/issuances.csv", h.IssuanceReport)
		})
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
