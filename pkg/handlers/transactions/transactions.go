package transactions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/finanzasapp/ledger/pkg/api"
	"github.com/finanzasapp/ledger/pkg/ledger"
	"github.com/finanzasapp/ledger/pkg/mapping"
	"github.com/finanzasapp/ledger/pkg/middleware"
	"github.com/finanzasapp/ledger/pkg/models"
)

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Ledger ledger.Ledger
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(l ledger.Ledger) *TransactionsHandler {
	return &TransactionsHandler{Ledger: l}
}

// RecordTransaction handles the logic for applying a deposit or withdrawal to
// the authenticated user's balance.
func (h *TransactionsHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing session", http.StatusUnauthorized)
		return
	}

	var newTx api.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&newTx); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	txType, err := models.ParseTransactionType(newTx.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recorded, err := h.Ledger.RecordTransaction(r.Context(), userID, txType, newTx.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidTransactionType):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrInsufficientFunds):
			http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
		case errors.Is(err, ledger.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, fmt.Sprintf("Failed to record transaction: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiTx := mapping.ToApiTransaction(recorded)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiTx); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListTransactions handles the logic for retrieving the authenticated user's
// transaction history.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing session", http.StatusUnauthorized)
		return
	}

	transactions, err := h.Ledger.ListTransactions(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiTxs := mapping.ToApiTransactions(transactions)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiTxs); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
