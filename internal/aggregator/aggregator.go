package aggregator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/metadata"
	"github.com/blackcheck/black-check-api/internal/store"
	"github.com/blackcheck/black-check-api/internal/store/schema"
)

// FeedItem is one row of the activity feed
type FeedItem struct {
	ID              string                `json:"id"`
	UserAddress     string                `json:"userAddress"`
	Action          domain.TransferAction `json:"action"`
	CheckCount      int                   `json:"checkCount"`
	TokenID         int64                 `json:"tokenId"`
	Timestamp       string                `json:"timestamp"`
	TimeAgo         string                `json:"timeAgo"`
	TransactionHash string                `json:"transactionHash"`
	TokenAddress    *string               `json:"tokenAddress"`
	CheckImages     []string              `json:"checkImages"`
}

// DepositedNFT is a token the user deposited and has not withdrawn since
type DepositedNFT struct {
	ID              string                  `json:"id"`
	TokenID         int64                   `json:"tokenId"`
	From            string                  `json:"from"`
	To              string                  `json:"to"`
	TokenAddress    *string                 `json:"tokenAddress"`
	TransactionHash string                  `json:"transactionHash"`
	BlockNumber     int64                   `json:"blockNumber"`
	BlockTimestamp  int64                   `json:"blockTimestamp"`
	ReceivedTokenID *int64                  `json:"receivedTokenId"`
	Metadata        *metadata.CheckMetadata `json:"metadata"`
}

// Aggregator builds the read views over the transfer store
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=Aggregator=MockAggregator
type Aggregator interface {
	// Feed returns the latest aggregator activity, newest first
	Feed(ctx context.Context) ([]FeedItem, error)

	// DepositedNFTs returns the tokens address still has deposited, newest deposit first
	DepositedNFTs(ctx context.Context, address string) ([]DepositedNFT, error)

	// AggregatorAddress returns the aggregator contract address
	AggregatorAddress() string
}

type aggregator struct {
	store    store.Store
	resolver metadata.Resolver
	clock    adapter.Clock
	address  string
	pageSize int
}

func NewAggregator(s store.Store, resolver metadata.Resolver, clock adapter.Clock, aggregatorAddress string, pageSize int) Aggregator {
	if pageSize <= 0 {
		pageSize = domain.DEFAULT_FEED_PAGE_SIZE
	}
	return &aggregator{
		store:    s,
		resolver: resolver,
		clock:    clock,
		address:  domain.NormalizeAddress(aggregatorAddress),
		pageSize: pageSize,
	}
}

func (a *aggregator) AggregatorAddress() string {
	return a.address
}

func (a *aggregator) Feed(ctx context.Context) ([]FeedItem, error) {
	rows, err := a.store.GetAggregatorActivity(ctx, a.address, a.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregator activity: %w", err)
	}

	// one batch resolution per request, never one per row
	resolved := a.resolve(ctx, rows)

	now := a.clock.Now()
	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		action, actor := domain.ClassifyTransfer(row.From, row.To, a.address)
		ts := time.Unix(row.BlockTimestamp, 0).UTC()

		images := []string{}
		if m, ok := resolved[row.TokenID]; ok && m != nil && m.ImageURL != "" {
			images = append(images, m.ImageURL)
		}

		items = append(items, FeedItem{
			ID:              row.ID,
			UserAddress:     actor,
			Action:          action,
			CheckCount:      1,
			TokenID:         row.TokenID,
			Timestamp:       ts.Format(time.RFC3339),
			TimeAgo:         FormatTimeAgo(now, ts),
			TransactionHash: row.TransactionHash,
			TokenAddress:    row.TokenAddress,
			CheckImages:     images,
		})
	}

	return items, nil
}

func (a *aggregator) DepositedNFTs(ctx context.Context, address string) ([]DepositedNFT, error) {
	if !domain.IsValidAddress(address) {
		return nil, domain.ErrInvalidAddress
	}
	sender := domain.NormalizeAddress(address)

	rows, err := a.store.GetDepositsBySender(ctx, a.address, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}

	// rows are newest first: the first row per token is its latest deposit
	latest := make([]schema.Transfer, 0, len(rows))
	seen := make(map[tokenKey]struct{}, len(rows))
	for _, row := range rows {
		key := keyOf(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		latest = append(latest, row)
	}
	if len(latest) == 0 {
		return []DepositedNFT{}, nil
	}

	latest, err = a.dropWithdrawn(ctx, latest)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return []DepositedNFT{}, nil
	}

	received, err := a.receivedTokenIDs(ctx, sender, latest)
	if err != nil {
		return nil, err
	}

	resolved := a.resolve(ctx, latest)

	deposits := make([]DepositedNFT, 0, len(latest))
	for _, row := range latest {
		d := DepositedNFT{
			ID:              row.ID,
			TokenID:         row.TokenID,
			From:            row.From,
			To:              row.To,
			TokenAddress:    row.TokenAddress,
			TransactionHash: row.TransactionHash,
			BlockNumber:     row.BlockNumber,
			BlockTimestamp:  row.BlockTimestamp,
			Metadata:        resolved[row.TokenID],
		}
		if id, ok := received[row.TransactionHash]; ok {
			d.ReceivedTokenID = &id
		}
		deposits = append(deposits, d)
	}

	return deposits, nil
}

// tokenKey identifies a token across collections. An empty address means the
// row did not record its contract.
type tokenKey struct {
	address string
	tokenID int64
}

func keyOf(row schema.Transfer) tokenKey {
	key := tokenKey{tokenID: row.TokenID}
	if row.TokenAddress != nil {
		key.address = domain.NormalizeAddress(*row.TokenAddress)
	}
	return key
}

// dropWithdrawn removes deposits whose token left the aggregator at a later block.
// Withdrawals only match deposits of the same collection; a row without a contract
// address matches any collection.
func (a *aggregator) dropWithdrawn(ctx context.Context, deposits []schema.Transfer) ([]schema.Transfer, error) {
	tokenIDs := make([]int64, 0, len(deposits))
	seen := make(map[int64]struct{}, len(deposits))
	for _, d := range deposits {
		if _, ok := seen[d.TokenID]; ok {
			continue
		}
		seen[d.TokenID] = struct{}{}
		tokenIDs = append(tokenIDs, d.TokenID)
	}

	withdrawals, err := a.store.GetWithdrawalsByTokenIDs(ctx, a.address, tokenIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}

	lastByKey := make(map[tokenKey]int64, len(withdrawals))
	lastByID := make(map[int64]int64, len(withdrawals))
	for _, w := range withdrawals {
		key := keyOf(w)
		lastByKey[key] = max(lastByKey[key], w.BlockNumber)
		lastByID[w.TokenID] = max(lastByID[w.TokenID], w.BlockNumber)
	}

	kept := deposits[:0]
	for _, d := range deposits {
		key := keyOf(d)
		var block int64
		if key.address == "" {
			block = lastByID[d.TokenID]
		} else {
			block = max(lastByKey[key], lastByKey[tokenKey{tokenID: d.TokenID}])
		}
		if block > d.BlockNumber {
			logger.DebugCtx(ctx, "Skipping withdrawn deposit",
				zap.Int64("tokenID", d.TokenID),
				zap.String("tokenAddress", key.address),
				zap.Int64("depositBlock", d.BlockNumber),
				zap.Int64("withdrawalBlock", block))
			continue
		}
		kept = append(kept, d)
	}
	return kept, nil
}

// receivedTokenIDs maps each deposit transaction to the token minted to the sender in it
func (a *aggregator) receivedTokenIDs(ctx context.Context, sender string, deposits []schema.Transfer) (map[string]int64, error) {
	hashes := make([]string, 0, len(deposits))
	for _, d := range deposits {
		hashes = append(hashes, d.TransactionHash)
	}

	mints, err := a.store.GetMintsByTransactionHashes(ctx, sender, hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to query received tokens: %w", err)
	}

	received := make(map[string]int64, len(mints))
	for _, m := range mints {
		if _, ok := received[m.TransactionHash]; !ok {
			received[m.TransactionHash] = m.TokenID
		}
	}
	return received, nil
}

func (a *aggregator) resolve(ctx context.Context, rows []schema.Transfer) map[int64]*metadata.CheckMetadata {
	seen := make(map[int64]struct{}, len(rows))
	var tokenIDs []int64
	for _, row := range rows {
		if row.TokenID <= 0 {
			continue
		}
		if _, ok := seen[row.TokenID]; ok {
			continue
		}
		seen[row.TokenID] = struct{}{}
		tokenIDs = append(tokenIDs, row.TokenID)
	}
	if len(tokenIDs) == 0 {
		return map[int64]*metadata.CheckMetadata{}
	}
	return a.resolver.ResolveBatch(ctx, tokenIDs)
}

// FormatTimeAgo renders the age of ts at now as "Ns ago", "Nm ago", "Nh ago" or "Nd ago"
func FormatTimeAgo(now, ts time.Time) string {
	seconds := int64(now.Sub(ts) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}
