package ledger

import "errors"

var (
	// ErrBlankCredentials is returned when username or password is empty.
	ErrBlankCredentials = errors.New("username and password must not be blank")

	// ErrInvalidCharacters is returned when username or password contains
	// anything outside letters, digits and underscores.
	ErrInvalidCharacters = errors.New("username and password must contain only letters, digits and underscores")

	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on any authentication failure. Unknown
	// user and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidAmount is returned when a transaction amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidTransactionType is returned for a transaction type outside
	// deposit and withdrawal.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUserNotFound is returned when a user id resolves to no account.
	ErrUserNotFound = errors.New("user not found")
)
