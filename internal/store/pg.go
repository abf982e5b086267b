package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// InsertTransfer inserts a transfer with ON CONFLICT (id) DO NOTHING
func (s *pgStore) InsertTransfer(ctx context.Context, event domain.TransferEvent) (bool, error) {
	row := schema.NewTransfer(event)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert transfer %s: %w", event.ID, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetAggregatorActivity returns the latest transfers touching the aggregator, including mints
func (s *pgStore) GetAggregatorActivity(ctx context.Context, aggregator string, limit int) ([]schema.Transfer, error) {
	aggregator = domain.NormalizeAddress(aggregator)

	var transfers []schema.Transfer
	err := s.db.WithContext(ctx).
		Where(`"to" = ? OR "from" = ? OR "from" = ?`, aggregator, aggregator, domain.ETHEREUM_ZERO_ADDRESS).
		Order("block_number DESC").
		Order("id ASC").
		Limit(limit).
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregator activity: %w", err)
	}

	return transfers, nil
}

// GetDepositsBySender returns deposits of sender into the aggregator
func (s *pgStore) GetDepositsBySender(ctx context.Context, aggregator string, sender string) ([]schema.Transfer, error) {
	var transfers []schema.Transfer
	err := s.db.WithContext(ctx).
		Where(`"to" = ? AND "from" = ?`, domain.NormalizeAddress(aggregator), domain.NormalizeAddress(sender)).
		Order("block_number DESC").
		Order("id ASC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}

	return transfers, nil
}

// GetMintsByTransactionHashes returns mints to recipient in any of the given transactions
func (s *pgStore) GetMintsByTransactionHashes(ctx context.Context, recipient string, txHashes []string) ([]schema.Transfer, error) {
	if len(txHashes) == 0 {
		return nil, nil
	}

	var transfers []schema.Transfer
	err := s.db.WithContext(ctx).
		Where(`"from" = ? AND "to" = ? AND transaction_hash IN ?`,
			domain.ETHEREUM_ZERO_ADDRESS, domain.NormalizeAddress(recipient), txHashes).
		Order("block_number DESC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query mints by transaction hashes: %w", err)
	}

	return transfers, nil
}

// GetWithdrawalsByTokenIDs returns transfers out of the aggregator for the given tokens
func (s *pgStore) GetWithdrawalsByTokenIDs(ctx context.Context, aggregator string, tokenIDs []int64) ([]schema.Transfer, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	var transfers []schema.Transfer
	err := s.db.WithContext(ctx).
		Where(`"from" = ? AND token_id IN ?`, domain.NormalizeAddress(aggregator), tokenIDs).
		Order("block_number DESC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}

	return transfers, nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
