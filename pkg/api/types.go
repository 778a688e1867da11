// Package api holds the wire types of the HTTP surface. The ledger core only
// speaks domain models; conversion lives in pkg/mapping.
package api

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	InitialBalance *int64 `json:"initial_balance,omitempty"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the opaque session token to present on
// authenticated requests.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User is the public view of an account. The credential never leaves the server.
type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

// NewTransaction is the body of POST /transactions.
type NewTransaction struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
}

// Transaction is the public view of a recorded transaction.
type Transaction struct {
	Id        int64  `json:"id"`
	UserId    int64  `json:"user_id"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// Balance is the response of GET /balance.
type Balance struct {
	UserId  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}
