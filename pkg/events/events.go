package events

import (
	"context"
	"time"
)

// TransactionRecorded is emitted after a transaction has been durably
// recorded. Consumers receive it best-effort; the ledger never rolls back a
// recorded transaction because publishing failed.
type TransactionRecorded struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	NewBalance    int64     `json:"new_balance"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Publisher defines the interface for a component that publishes ledger events.
type Publisher interface {
	// PublishTransactionRecorded emits a TransactionRecorded event.
	PublishTransactionRecorded(ctx context.Context, event TransactionRecorded) error
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// PublishTransactionRecorded does nothing.
func (p *NoOpPublisher) PublishTransactionRecorded(ctx context.Context, event TransactionRecorded) error {
	return nil
}
