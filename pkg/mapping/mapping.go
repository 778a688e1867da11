package mapping

import (
	"github.com/finanzasapp/ledger/pkg/api"
	"github.com/finanzasapp/ledger/pkg/models"
)

// TimestampLayout is how transaction timestamps are rendered on the wire,
// second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// ToApiUser converts a domain User model to an API User model.
func ToApiUser(user *models.User) *api.User {
	return &api.User{
		Id:       user.ID,
		Username: user.Username,
		Balance:  user.Balance,
	}
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:        tx.ID,
		UserId:    tx.UserID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp.Format(TimestampLayout),
		Status:    string(tx.Status),
	}
}

// ToApiTransactions converts a slice of domain Transactions.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiBalance builds the balance response for a user.
func ToApiBalance(userID int64, balance int64) *api.Balance {
	return &api.Balance{
		UserId:  userID,
		Balance: balance,
	}
}
