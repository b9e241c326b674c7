// services/store-service/internal/ports/repository/tx_manager.repo.go

package repository

import "context"

// TransactionManager interface abstracts the database transaction.
// Stores called with the ctx handed to fn join that transaction; the whole
// unit commits when fn returns nil and rolls back on any error or panic.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	// RunInReadOnlyTx gives fn one consistent snapshot for multi-query reads.
	RunInReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}
