package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/invenedu/internal/core/domain"
)

func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	respondJSON(w, http.StatusOK, newUserResponse(*user))
}

func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	users, err := h.users.ListUsers(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), activeOnly)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(*u))
}

func (h *HTTPHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	u, err := h.users.CreateUser(r.Context(), domain.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
		IsActive:  active,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newUserResponse(*u))
}
