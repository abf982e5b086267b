package store

import (
	"context"

	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// InsertTransfer inserts a transfer, ignoring id conflicts.
	// inserted is false when a row with the same id already exists.
	InsertTransfer(ctx context.Context, event domain.TransferEvent) (inserted bool, err error)

	// GetAggregatorActivity returns transfers into or out of the aggregator and mints,
	// newest block first
	GetAggregatorActivity(ctx context.Context, aggregator string, limit int) ([]schema.Transfer, error)

	// GetDepositsBySender returns transfers from sender to the aggregator, newest block first
	GetDepositsBySender(ctx context.Context, aggregator string, sender string) ([]schema.Transfer, error)

	// GetMintsByTransactionHashes returns mints to recipient within the given transactions
	GetMintsByTransactionHashes(ctx context.Context, recipient string, txHashes []string) ([]schema.Transfer, error)

	// GetWithdrawalsByTokenIDs returns transfers out of the aggregator for the given tokens
	GetWithdrawalsByTokenIDs(ctx context.Context, aggregator string, tokenIDs []int64) ([]schema.Transfer, error)

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
