package storage

import "errors"

// ErrUserExists is returned when inserting a user whose username is already taken.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when a lookup by id or username matches no user.
var ErrUserNotFound = errors.New("user not found")

// ErrInsufficientFunds is returned when the storage-level balance guard rejects a write.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict is returned when an optimistic-lock check fails, e.g. the user
// record changed between the read and the conditioned write.
var ErrConflict = errors.New("conflicting concurrent update")
