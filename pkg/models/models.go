package models

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType identifies the direction of a balance change.
type TransactionType string

const (
	DEPOSIT    TransactionType = "DEPOSIT"
	WITHDRAWAL TransactionType = "WITHDRAWAL"
)

// ParseTransactionType converts a wire value into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(s)) {
	case DEPOSIT:
		return DEPOSIT, nil
	case WITHDRAWAL:
		return WITHDRAWAL, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// TransactionStatus defines the possible states of a recorded transaction.
// Rejected attempts are surfaced as errors and never persisted, so every
// stored transaction carries COMPLETED.
type TransactionStatus string

const (
	COMPLETED TransactionStatus = "COMPLETED"
	REJECTED  TransactionStatus = "REJECTED"
)

// User represents the internal domain model for an account holder.
// Balance is held in minor currency units. Version backs the optimistic
// locking on balance updates.
type User struct {
	ID           int64     `json:"id" dynamodbav:"id"`
	Username     string    `json:"username" dynamodbav:"username"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Balance      int64     `json:"balance" dynamodbav:"balance"`
	Version      int64     `json:"-" dynamodbav:"version"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Transaction represents a single deposit or withdrawal applied to one
// user's balance. Records are append-only and immutable once written.
type Transaction struct {
	ID        int64             `dynamodbav:"id"`
	UserID    int64             `dynamodbav:"user_id"`
	Type      TransactionType   `dynamodbav:"type"`
	Amount    int64             `dynamodbav:"amount"`
	Timestamp time.Time         `dynamodbav:"timestamp"`
	Status    TransactionStatus `dynamodbav:"status"`
}
