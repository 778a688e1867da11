package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finanzasapp/ledger/pkg/handlers/balance"
	"github.com/finanzasapp/ledger/pkg/handlers/transactions"
	"github.com/finanzasapp/ledger/pkg/handlers/users"
	"github.com/finanzasapp/ledger/pkg/ledger"
	mw "github.com/finanzasapp/ledger/pkg/middleware"
	"github.com/finanzasapp/ledger/pkg/sessions"
)

// Handler composes the per-area handlers behind the HTTP surface.
type Handler struct {
	Users        *users.UsersHandler
	Transactions *transactions.TransactionsHandler
	Balance      *balance.BalanceHandler
	Sessions     *sessions.Manager
}

// New creates a Handler wired to the given ledger and session manager.
func New(l ledger.Ledger, sessionManager *sessions.Manager) *Handler {
	return &Handler{
		Users:        users.NewUsersHandler(l, sessionManager),
		Transactions: transactions.NewTransactionsHandler(l),
		Balance:      balance.NewBalanceHandler(l),
		Sessions:     sessionManager,
	}
}

// Routes mounts all endpoints on a chi router. Everything past /register and
// /login sits behind the session middleware.
func (h *Handler) Routes(logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw.NewStructuredLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/register", h.Users.Register)
	r.Post("/login", h.Users.Login)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(h.Sessions))
		r.Post("/logout", h.Users.Logout)
		r.Post("/transactions", h.Transactions.RecordTransaction)
		r.Get("/transactions", h.Transactions.ListTransactions)
		r.Get("/balance", h.Balance.GetBalance)
	})

	return r
}
