package storage

// Storage defines the root interface for the entire ledger data layer.
// It composes all available storage operations. Components should depend on
// the more granular interfaces (UserStore, TransactionStore) instead of this
// one.
type Storage interface {
	UserStore
	TransactionStore
}
