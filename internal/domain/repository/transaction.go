package repository

import "context"

// TransactionManager defines the interface for managing store transactions.
// This allows the use case layer to handle transactions without depending on a specific driver like GORM or Firestore.
type TransactionManager interface {
	// Execute runs a function within a transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// Implementations may run fn more than once when the store retries a contended transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances that are bound to a specific transaction.
// Only the operations that must be atomic with token consumption are exposed.
type RepositoryFactory interface {
	// TokenRepo returns a TokenConsumer bound to the current transaction.
	TokenRepo() TokenConsumer

	// PresenceRepo returns a PresenceRepository bound to the current transaction.
	PresenceRepo() PresenceRepository
}
