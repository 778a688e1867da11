package storage

import (
	"context"

	"github.com/finanzasapp/ledger/pkg/models"
)

// UserStore defines the interface for managing user records.
type UserStore interface {
	// CreateUser inserts a new user, assigning its id. Username uniqueness is
	// enforced by the storage layer itself; a duplicate fails with ErrUserExists.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)

	// GetUser retrieves a user by id. Returns ErrUserNotFound when absent.
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByUsername retrieves a user by username. Returns ErrUserNotFound when absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateBalance overwrites a user's balance. Returns ErrUserNotFound when
	// the id is absent.
	UpdateBalance(ctx context.Context, userID int64, newBalance int64) error
}
