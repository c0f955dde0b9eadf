package handler

import "net/http"

func (h *HTTPHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newStatisticsResponse(stats))
}

func (h *HTTPHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.queries.AdminDashboard(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, AdminDashboardResponse{
		StatisticsResponse: newStatisticsResponse(d.Statistics),
		TotalUsers:         d.TotalUsers,
		RecentIssuances:    newIssuanceResponses(d.RecentIssuances, h.queries.Now()),
		LowStockItems:      newItemResponses(d.LowStockItems),
	})
}

func (h *HTTPHandler) MyDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	d, err := h.queries.UserDashboard(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	now := h.queries.Now()
	respondJSON(w, http.StatusOK, UserDashboardResponse{
		UserName:         d.UserName,
		TotalIssuances:   d.TotalIssuances,
		CurrentlyHolding: d.CurrentlyHolding,
		Overdue:          d.Overdue,
		ActiveIssuances:  newIssuanceResponses(d.ActiveIssuances, now),
		RecentIssuances:  newIssuanceResponses(d.RecentIssuances, now),
	})
}
