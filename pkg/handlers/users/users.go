package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/finanzasapp/ledger/pkg/api"
	"github.com/finanzasapp/ledger/pkg/ledger"
	"github.com/finanzasapp/ledger/pkg/mapping"
	"github.com/finanzasapp/ledger/pkg/middleware"
	"github.com/finanzasapp/ledger/pkg/sessions"
)

// UsersHandler holds the dependencies for registration and session handlers.
type UsersHandler struct {
	Ledger   ledger.Ledger
	Sessions *sessions.Manager
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(l ledger.Ledger, sessions *sessions.Manager) *UsersHandler {
	return &UsersHandler{Ledger: l, Sessions: sessions}
}

// Register handles the logic for creating a new account.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	initialBalance := ledger.DefaultInitialBalance
	if req.InitialBalance != nil {
		initialBalance = *req.InitialBalance
	}

	user, err := h.Ledger.RegisterUser(r.Context(), req.Username, req.Password, initialBalance)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBlankCredentials),
			errors.Is(err, ledger.ErrInvalidCharacters),
			errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrUsernameTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to register user: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiUser := mapping.ToApiUser(user)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiUser); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Login handles the logic for authenticating and opening a session.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	user, err := h.Ledger.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		} else {
			http.Error(w, fmt.Sprintf("Failed to authenticate: %v", err), http.StatusInternalServerError)
		}
		return
	}

	token := h.Sessions.Create(user.ID)

	resp := api.LoginResponse{
		Token: token,
		User:  *mapping.ToApiUser(user),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Logout ends the caller's session.
func (h *UsersHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		h.Sessions.Destroy(token)
	}
	w.WriteHeader(http.StatusNoContent)
}
