package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
)

const releaseTimeout = 5 * time.Second

func (h *HTTPHandler) SearchIssuances(w http.ResponseWriter, r *http.Request) {
	filter, err := issuanceFilterFromQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	filter.UserID = r.URL.Query().Get("user_id")

	page, err := pageFromQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.respondIssuancePage(w, r, filter, page)
}

// MyIssuances lists the caller's own history.
func (h *HTTPHandler) MyIssuances(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	status, err := queryStatus(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.queries.UserIssuances(r.Context(), user.ID, status, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	now := h.queries.Now()
	respondJSON(w, http.StatusOK, newPageResponse(result, func(rec domain.Issuance) IssuanceResponse {
		return newIssuanceResponse(rec, now)
	}))
}

func (h *HTTPHandler) respondIssuancePage(w http.ResponseWriter, r *http.Request, filter domain.IssuanceFilter, page domain.PageRequest) {
	result, err := h.queries.SearchIssuances(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	now := h.queries.Now()
	respondJSON(w, http.StatusOK, newPageResponse(result, func(rec domain.Issuance) IssuanceResponse {
		return newIssuanceResponse(rec, now)
	}))
}

func issuanceFilterFromQuery(r *http.Request) (domain.IssuanceFilter, error) {
	status, err := queryStatus(r)
	if err != nil {
		return domain.IssuanceFilter{}, err
	}
	from, err := queryDate(r, "from", false)
	if err != nil {
		return domain.IssuanceFilter{}, err
	}
	to, err := queryDate(r, "to", true)
	if err != nil {
		return domain.IssuanceFilter{}, err
	}

	return domain.IssuanceFilter{
		Term:   strings.TrimSpace(r.URL.Query().Get("q")),
		Status: status,
		From:   from,
		To:     to,
	}, nil
}

func (h *HTTPHandler) GetIssuance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	rec, err := h.engine.GetIssuance(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newIssuanceResponse(*rec, h.queries.Now()))
}

// Issue creates an issuance. A repeated Idempotency-Key is rejected with 409
// until the first request fails or the key expires.
func (h *HTTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueHTTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	key := r.Header.Get(HeaderIdempotencyKey)
	if key != "" && h.guard != nil {
		ok, err := h.guard.Claim(r.Context(), key)
		if err != nil {
			logger.FromContext(r.Context()).Error("request guard unavailable", "error", err)
			respondError(w, http.StatusServiceUnavailable, "request guard unavailable")
			return
		}
		if !ok {
			respondError(w, http.StatusConflict, "duplicate request")
			return
		}
	}

	rec, err := h.engine.Issue(r.Context(), domain.IssueRequest{
		ItemID:             req.ItemID,
		UserID:             req.UserID,
		Quantity:           req.Quantity,
		ExpectedReturnDate: req.ExpectedReturnDate,
		Notes:              req.Notes,
	})
	if err != nil {
		if key != "" && h.guard != nil {
			h.releaseKey(r.Context(), key)
		}
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newIssuanceResponse(*rec, h.queries.Now()))
}

// releaseKey outlives the request so a client that hung up can still retry.
func (h *HTTPHandler) releaseKey(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := h.guard.Release(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("release request key failed", "key", key, "error", err)
	}
}

func (h *HTTPHandler) UpdateIssuance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req UpdateIssuanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	rec, err := h.engine.UpdateIssuance(r.Context(), id, domain.IssuanceUpdate{
		ExpectedReturnDate: req.ExpectedReturnDate,
		Notes:              req.Notes,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newIssuanceResponse(*rec, h.queries.Now()))
}

func (h *HTTPHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	rec, err := h.engine.MarkReturned(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newIssuanceResponse(*rec, h.queries.Now()))
}

func (h *HTTPHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req MarkLostRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			respondServiceError(w, r, err)
			return
		}
	}

	rec, err := h.engine.MarkLost(r.Context(), id, req.Notes)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newIssuanceResponse(*rec, h.queries.Now()))
}

func (h *HTTPHandler) OverdueIssuances(w http.ResponseWriter, r *http.Request) {
	recs, err := h.queries.OverdueIssuances(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newIssuanceResponses(recs, h.queries.Now()))
}
