package memory

import (
	"context"
	"sync"

	"github.com/finanzasapp/ledger/pkg/models"
	"github.com/finanzasapp/ledger/pkg/storage"
)

// Store is an in-memory implementation of storage.Storage, used for tests and
// local runs. All operations are guarded by a single mutex, so the
// balance-update plus log-append in ApplyTransaction is atomic by
// construction.
type Store struct {
	mu           sync.Mutex
	usersByName  map[string]*models.User
	usersByID    map[int64]*models.User
	transactions []models.Transaction
	nextUserID   int64
	nextTxID     int64

	applyErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		usersByName: make(map[string]*models.User),
		usersByID:   make(map[int64]*models.User),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// FailNextApply makes the next ApplyTransaction call fail with err before any
// state change. Tests use this to simulate a storage failure inside the
// atomic unit.
func (s *Store) FailNextApply(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyErr = err
}

// CreateUser inserts a new user, assigning its id. Duplicate usernames fail
// with storage.ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[user.Username]; exists {
		return nil, storage.ErrUserExists
	}

	s.nextUserID++
	stored := *user
	stored.ID = s.nextUserID
	stored.Version = 1

	s.usersByName[stored.Username] = &stored
	s.usersByID[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetUser retrieves a copy of a user by id.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByID[userID]
	if !exists {
		return nil, storage.ErrUserNotFound
	}

	out := *user
	return &out, nil
}

// GetUserByUsername retrieves a copy of a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByName[username]
	if !exists {
		return nil, storage.ErrUserNotFound
	}

	out := *user
	return &out, nil
}

// UpdateBalance overwrites a user's balance.
func (s *Store) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByID[userID]
	if !exists {
		return storage.ErrUserNotFound
	}

	user.Balance = newBalance
	user.Version++
	return nil
}

// ApplyTransaction persists the new balance and appends the transaction
// record under one lock acquisition: both happen or, when the injected
// failure or a conflict fires first, neither does.
func (s *Store) ApplyTransaction(ctx context.Context, user *models.User, newBalance int64, tx *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applyErr != nil {
		err := s.applyErr
		s.applyErr = nil
		return nil, err
	}

	stored, exists := s.usersByID[user.ID]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	if stored.Balance != user.Balance || stored.Version != user.Version {
		return nil, storage.ErrConflict
	}

	stored.Balance = newBalance
	stored.Version++

	s.nextTxID++
	record := *tx
	record.ID = s.nextTxID
	s.transactions = append(s.transactions, record)

	out := record
	return &out, nil
}

// AppendTransaction appends a single transaction record, assigning its id.
func (s *Store) AppendTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxID++
	record := *tx
	record.ID = s.nextTxID
	s.transactions = append(s.transactions, record)

	out := record
	return &out, nil
}

// ListTransactionsByUserID returns copies of a user's transactions in
// creation order.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID int64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Transaction{}
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			result = append(result, tx)
		}
	}
	return result, nil
}
