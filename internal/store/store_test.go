package store

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcheck/black-check-api/internal/domain"
)

const (
	testAggregator = "0x6140f00e4ff3936702e68744f2b5978885464cbb"
	testCollection = "0x57d74ff9303283cd19461c80e90e6ae59222675c"
	testUser       = "0x1111111111111111111111111111111111111111"
	testOtherUser  = "0x2222222222222222222222222222222222222222"
)

// buildTestTransfer creates a transfer event keyed by {txHash}_{tokenId}
func buildTestTransfer(txHash string, tokenID int64, from, to string, block int64) domain.TransferEvent {
	contract := testCollection
	return domain.TransferEvent{
		ID:              domain.TransferID(txHash, strconv.FormatInt(tokenID, 10)),
		TokenID:         tokenID,
		From:            from,
		To:              to,
		TokenAddress:    &contract,
		BlockNumber:     block,
		BlockTimestamp:  1700000000 + block,
		TransactionHash: txHash,
	}
}

func mustInsert(t *testing.T, s Store, events ...domain.TransferEvent) {
	t.Helper()
	for _, e := range events {
		inserted, err := s.InsertTransfer(context.Background(), e)
		require.NoError(t, err)
		require.True(t, inserted, "expected %s to be inserted", e.ID)
	}
}

// RunStoreTests runs the store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	t.Run("InsertTransfer", func(t *testing.T) {
		testInsertTransfer(t, initDB(t))
	})
	t.Run("GetAggregatorActivity", func(t *testing.T) {
		testGetAggregatorActivity(t, initDB(t))
	})
	t.Run("GetDepositsBySender", func(t *testing.T) {
		testGetDepositsBySender(t, initDB(t))
	})
	t.Run("GetMintsByTransactionHashes", func(t *testing.T) {
		testGetMintsByTransactionHashes(t, initDB(t))
	})
	t.Run("GetWithdrawalsByTokenIDs", func(t *testing.T) {
		testGetWithdrawalsByTokenIDs(t, initDB(t))
	})
	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, initDB(t).Ping(context.Background()))
	})
}

func testInsertTransfer(t *testing.T, s Store) {
	ctx := context.Background()
	event := buildTestTransfer("0xaaa", 15, testUser, testAggregator, 9282423)

	inserted, err := s.InsertTransfer(ctx, event)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Re-delivery is a no-op, not an error
	event.BlockNumber = 1
	inserted, err = s.InsertTransfer(ctx, event)
	require.NoError(t, err)
	assert.False(t, inserted)

	rows, err := s.GetDepositsBySender(ctx, testAggregator, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9282423), rows[0].BlockNumber, "rows are never updated")
	assert.Equal(t, int64(15), rows[0].TokenID)
	require.NotNil(t, rows[0].TokenAddress)
	assert.Equal(t, testCollection, *rows[0].TokenAddress)

	// Audit rows share the table and carry no token
	inserted, err = s.InsertTransfer(ctx, domain.TransferEvent{
		ID:              "0xaaa_7",
		From:            domain.WEBHOOK_AUDIT_FROM,
		To:              domain.WEBHOOK_AUDIT_TO,
		TransactionHash: "0xaaa",
	})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func testGetAggregatorActivity(t *testing.T, s Store) {
	ctx := context.Background()
	mustInsert(t, s,
		buildTestTransfer("0x01", 1, domain.ETHEREUM_ZERO_ADDRESS, testUser, 100),
		buildTestTransfer("0x02", 1, testUser, testAggregator, 200),
		buildTestTransfer("0x03", 1, testAggregator, testUser, 300),
		buildTestTransfer("0x04", 2, testUser, testOtherUser, 400),
		domain.TransferEvent{ID: "0x05_0", From: domain.WEBHOOK_AUDIT_FROM, To: domain.WEBHOOK_AUDIT_TO, TransactionHash: "0x05", BlockNumber: 500},
	)

	rows, err := s.GetAggregatorActivity(ctx, testAggregator, 50)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(300), rows[0].BlockNumber)
	assert.Equal(t, int64(200), rows[1].BlockNumber)
	assert.Equal(t, int64(100), rows[2].BlockNumber)

	// Mixed case aggregator still matches lowercase rows
	rows, err = s.GetAggregatorActivity(ctx, "0x6140F00E4FF3936702E68744F2B5978885464CBB", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func testGetDepositsBySender(t *testing.T, s Store) {
	ctx := context.Background()
	mustInsert(t, s,
		buildTestTransfer("0x10", 5, testUser, testAggregator, 100),
		buildTestTransfer("0x11", 5, testUser, testAggregator, 200),
		buildTestTransfer("0x12", 6, testOtherUser, testAggregator, 300),
	)

	rows, err := s.GetDepositsBySender(ctx, testAggregator, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(200), rows[0].BlockNumber)
	assert.Equal(t, int64(100), rows[1].BlockNumber)
}

func testGetMintsByTransactionHashes(t *testing.T, s Store) {
	ctx := context.Background()
	mustInsert(t, s,
		buildTestTransfer("0x20", 5, testUser, testAggregator, 100),
		buildTestTransfer("0x20", 900, domain.ETHEREUM_ZERO_ADDRESS, testUser, 100),
		buildTestTransfer("0x21", 901, domain.ETHEREUM_ZERO_ADDRESS, testOtherUser, 110),
		buildTestTransfer("0x22", 902, domain.ETHEREUM_ZERO_ADDRESS, testUser, 120),
	)

	rows, err := s.GetMintsByTransactionHashes(ctx, testUser, []string{"0x20", "0x21"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(900), rows[0].TokenID)

	rows, err = s.GetMintsByTransactionHashes(ctx, testUser, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func testGetWithdrawalsByTokenIDs(t *testing.T, s Store) {
	ctx := context.Background()
	mustInsert(t, s,
		buildTestTransfer("0x30", 7, testAggregator, testUser, 500),
		buildTestTransfer("0x31", 8, testAggregator, testUser, 510),
		buildTestTransfer("0x32", 7, testUser, testAggregator, 400),
	)

	rows, err := s.GetWithdrawalsByTokenIDs(ctx, testAggregator, []int64{7})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(500), rows[0].BlockNumber)

	rows, err = s.GetWithdrawalsByTokenIDs(ctx, testAggregator, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
