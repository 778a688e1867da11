package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/finanzasapp/ledger/pkg/events"
	"github.com/finanzasapp/ledger/pkg/models"
	"github.com/finanzasapp/ledger/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// DefaultInitialBalance is the opening balance for new accounts, in minor
// currency units.
const DefaultInitialBalance int64 = 1000

var credentialPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Ledger defines the operations the presentation layer can call. Service is
// the only implementation; handlers depend on this interface.
type Ledger interface {
	// RegisterUser creates a new account with a hashed credential.
	RegisterUser(ctx context.Context, username, password string, initialBalance int64) (*models.User, error)

	// Authenticate verifies a credential and returns the matching user.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// RecordTransaction applies a deposit or withdrawal to a user's balance
	// and appends the completed record to the transaction log.
	RecordTransaction(ctx context.Context, userID int64, txType models.TransactionType, amount int64) (*models.Transaction, error)

	// ListTransactions returns a user's transactions in creation order.
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)

	// GetBalance returns a user's current balance.
	GetBalance(ctx context.Context, userID int64) (int64, error)
}

// Service enforces the ledger's business rules and orchestrates the storage
// layer. Balance consistency, non-negativity, username uniqueness and
// referential integrity of the transaction log are all enforced here and
// backstopped by storage conditions.
type Service struct {
	store     storage.Storage
	publisher events.Publisher
}

// NewService creates a new Service. A nil publisher disables event emission.
func NewService(store storage.Storage, publisher events.Publisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
	}
}

// Make sure we conform to the interface
var _ Ledger = (*Service)(nil)

// RegisterUser validates the credential pair, hashes the password and inserts
// the user. Validation short-circuits on the first failure: blank fields,
// then character set, then uniqueness.
func (s *Service) RegisterUser(ctx context.Context, username, password string, initialBalance int64) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrBlankCredentials
	}
	if !credentialPattern.MatchString(username) || !credentialPattern.MatchString(password) {
		return nil, ErrInvalidCharacters
	}
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}

	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Balance:      initialBalance,
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		// The storage layer enforces uniqueness too, closing the window
		// between the read above and this insert.
		if errors.Is(err, storage.ErrUserExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// Authenticate looks up the user and compares the credential. All failure
// modes collapse into ErrInvalidCredentials so a caller cannot probe which
// usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// RecordTransaction applies a deposit or withdrawal. A rejected attempt
// (bad amount, unknown user, insufficient funds) leaves the data model
// completely unchanged; an accepted one persists the new balance and the
// COMPLETED record as a single atomic unit.
func (s *Service) RecordTransaction(ctx context.Context, userID int64, txType models.TransactionType, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if txType != models.DEPOSIT && txType != models.WITHDRAWAL {
		return nil, ErrInvalidTransactionType
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var newBalance int64
	switch txType {
	case models.WITHDRAWAL:
		if amount > user.Balance {
			return nil, ErrInsufficientFunds
		}
		newBalance = user.Balance - amount
	case models.DEPOSIT:
		newBalance = user.Balance + amount
	}

	// Timestamp is captured once, at acceptance, with second precision.
	tx := &models.Transaction{
		UserID:    user.ID,
		Type:      txType,
		Amount:    amount,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Status:    models.COMPLETED,
	}

	recorded, err := s.store.ApplyTransaction(ctx, user, newBalance, tx)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to apply transaction: %w", err)
	}

	if s.publisher != nil {
		event := events.TransactionRecorded{
			TransactionID: recorded.ID,
			UserID:        recorded.UserID,
			Type:          string(recorded.Type),
			Amount:        recorded.Amount,
			NewBalance:    newBalance,
			RecordedAt:    recorded.Timestamp,
		}
		if err := s.publisher.PublishTransactionRecorded(ctx, event); err != nil {
			slog.ErrorContext(ctx, "transaction recorded but event publish failed",
				slog.Int64("transaction_id", recorded.ID),
				slog.Any("error", err),
			)
		}
	}

	return recorded, nil
}

// ListTransactions returns a user's transactions in creation order. A user
// with no transactions yields an empty slice, not an error.
func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	transactions, err := s.store.ListTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// GetBalance returns a user's current balance.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Balance, nil
}
