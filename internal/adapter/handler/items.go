package handler

import (
	"net/http"
	"strings"

	"github.com/rl1809/invenedu/internal/core/domain"
)

func (h *HTTPHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryInt64(r, "category_id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	lowStock, err := queryBool(r, "low_stock")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	outOfStock, err := queryBool(r, "out_of_stock")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	filter := domain.ItemFilter{
		Term:           strings.TrimSpace(r.URL.Query().Get("q")),
		CategoryID:     categoryID,
		LowStockOnly:   lowStock,
		OutOfStockOnly: outOfStock,
	}

	result, err := h.queries.SearchItems(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newPageResponse(result, newItemResponse))
}

func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	item, err := h.ledger.GetItem(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newItemResponse(*item))
}

func (h *HTTPHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	item, err := h.ledger.CreateItem(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newItemResponse(*item))
}

func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req UpdateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	item, err := h.ledger.UpdateItem(r.Context(), id, req.Version, req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newItemResponse(*item))
}

func (h *HTTPHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.ledger.DeleteItem(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req AdjustQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	item, err := h.ledger.AdjustQuantity(r.Context(), id, req.Delta)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newItemResponse(*item))
}

func (h *HTTPHandler) LowStockItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.LowStockItems(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newItemResponses(items))
}

func (h *HTTPHandler) OutOfStockItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.OutOfStockItems(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newItemResponses(items))
}
