package storage

import (
	"context"

	"github.com/finanzasapp/ledger/pkg/models"
)

// TransactionReader defines the interface for reading the transaction log.
type TransactionReader interface {
	// ListTransactionsByUserID retrieves all transactions for a user in
	// creation order (ascending by id). A user with no transactions yields an
	// empty slice, not an error.
	ListTransactionsByUserID(ctx context.Context, userID int64) ([]models.Transaction, error)
}

// TransactionWriter defines the interface for appending to the transaction log.
type TransactionWriter interface {
	// ApplyTransaction persists the user's new balance and appends the
	// transaction record as a single atomic unit: both writes happen or
	// neither does. The transaction id is assigned here. The passed user
	// carries the balance and version observed by the caller; a concurrent
	// change fails the whole unit with ErrConflict.
	ApplyTransaction(ctx context.Context, user *models.User, newBalance int64, tx *models.Transaction) (*models.Transaction, error)

	// AppendTransaction appends a single transaction record, assigning its id.
	AppendTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
}

// TransactionStore combines the reader and writer interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionWriter
}
