package balance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/finanzasapp/ledger/pkg/ledger"
	"github.com/finanzasapp/ledger/pkg/mapping"
	"github.com/finanzasapp/ledger/pkg/middleware"
)

// BalanceHandler holds the dependencies for the balance handler.
type BalanceHandler struct {
	Ledger ledger.Ledger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(l ledger.Ledger) *BalanceHandler {
	return &BalanceHandler{Ledger: l}
}

// GetBalance handles the logic for retrieving the authenticated user's balance.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing session", http.StatusUnauthorized)
		return
	}

	current, err := h.Ledger.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to get balance: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiBalance := mapping.ToApiBalance(userID, current)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiBalance); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
