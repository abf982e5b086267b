package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/config"
	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/providers/alchemy"
	"github.com/blackcheck/black-check-api/internal/providers/opensea"
)

// ErrUpstreamFailed marks a not-found result where no source gave a definitive answer
var ErrUpstreamFailed = errors.New("all metadata sources failed")

// Resolver defines the interface for resolving check metadata by token id
//
//go:generate mockgen -source=resolver.go -destination=../mocks/metadata_resolver.go -package=mocks -mock_names=Resolver=MockMetadataResolver
type Resolver interface {
	// ResolveOne scans the aggregator holdings of each collection, then falls back to Lookup.
	// Returns domain.ErrCheckNotFound when no source holds the token.
	ResolveOne(ctx context.Context, tokenID int64) (*CheckMetadata, error)

	// Lookup queries the single-item endpoint of each collection in turn.
	// Returns domain.ErrCheckNotFound when no source holds the token.
	Lookup(ctx context.Context, tokenID int64) (*CheckMetadata, error)

	// ResolveBatch resolves every token id. Unresolvable ids are omitted; upstream errors never fail the call.
	ResolveBatch(ctx context.Context, tokenIDs []int64) map[int64]*CheckMetadata

	// ListOwned returns the tokens of both collections held by owner. Failed collections are skipped.
	ListOwned(ctx context.Context, owner string) ([]CheckMetadata, error)
}

type resolver struct {
	alchemyClient alchemy.Client
	openseaClient opensea.Client
	network       domain.Network
	contracts     config.ContractSet
	concurrency   int
}

func NewResolver(alchemyClient alchemy.Client, openseaClient opensea.Client, network domain.Network, contracts config.ContractSet, concurrency int) Resolver {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &resolver{
		alchemyClient: alchemyClient,
		openseaClient: openseaClient,
		network:       network,
		contracts:     contracts,
		concurrency:   concurrency,
	}
}

func (r *resolver) ResolveOne(ctx context.Context, tokenID int64) (*CheckMetadata, error) {
	id := strconv.FormatInt(tokenID, 10)

	for _, contract := range r.contracts.Collections {
		nfts, err := r.alchemyClient.GetNFTsForOwner(ctx, r.contracts.Aggregator, contract)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to fetch aggregator holdings",
				zap.String("contract", contract),
				zap.Error(err))
			continue
		}
		for i := range nfts {
			if nfts[i].DecimalTokenID() == id {
				return FromAlchemy(&nfts[i]), nil
			}
		}
	}

	return r.Lookup(ctx, tokenID)
}

func (r *resolver) Lookup(ctx context.Context, tokenID int64) (*CheckMetadata, error) {
	id := strconv.FormatInt(tokenID, 10)

	var answered bool
	for _, contract := range r.contracts.Collections {
		m, err := r.lookupAlchemy(ctx, contract, id)
		if err != nil {
			if adapter.IsNotFound(err) {
				answered = true
			} else {
				logger.DebugCtx(ctx, "Alchemy lookup failed",
					zap.String("contract", contract),
					zap.String("tokenID", id),
					zap.Error(err))
			}
			continue
		}
		answered = true
		if m != nil {
			return m, nil
		}
	}

	if r.openseaClient != nil && r.openseaClient.Enabled() {
		for _, contract := range r.contracts.Collections {
			nft, err := r.openseaClient.GetNFT(ctx, r.network.OpenSeaChain(), contract, id)
			if err != nil {
				if adapter.IsNotFound(err) {
					answered = true
				}
				continue
			}
			answered = true
			return FromOpenSea(nft), nil
		}
	}

	if !answered {
		return nil, fmt.Errorf("%w: %w", domain.ErrCheckNotFound, ErrUpstreamFailed)
	}
	return nil, domain.ErrCheckNotFound
}

// lookupAlchemy returns nil metadata when the contract answered but does not hold the token
func (r *resolver) lookupAlchemy(ctx context.Context, contract, id string) (*CheckMetadata, error) {
	nft, err := r.alchemyClient.GetNFTMetadata(ctx, contract, id)
	if err != nil {
		return nil, err
	}
	if !nft.Exists() || nft.DecimalTokenID() != id {
		return nil, nil
	}
	return FromAlchemy(nft), nil
}

func (r *resolver) ResolveBatch(ctx context.Context, tokenIDs []int64) map[int64]*CheckMetadata {
	var (
		mu      sync.Mutex
		results = make(map[int64]*CheckMetadata, len(tokenIDs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	// one lookup per token and collection; the first success per token wins
	for _, tokenID := range uniqueIDs(tokenIDs) {
		id := strconv.FormatInt(tokenID, 10)
		for _, contract := range r.contracts.Collections {
			g.Go(func() error {
				m, err := r.lookupAlchemy(gctx, contract, id)
				if err != nil || m == nil {
					return nil
				}
				mu.Lock()
				defer mu.Unlock()
				if _, ok := results[tokenID]; !ok {
					results[tokenID] = m
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	return results
}

func (r *resolver) ListOwned(ctx context.Context, owner string) ([]CheckMetadata, error) {
	if !domain.IsValidAddress(owner) {
		return nil, domain.ErrInvalidAddress
	}

	perCollection := make([][]CheckMetadata, len(r.contracts.Collections))

	var g errgroup.Group
	for i, contract := range r.contracts.Collections {
		g.Go(func() error {
			nfts, err := r.alchemyClient.GetNFTsForOwner(ctx, owner, contract)
			if err != nil {
				if errors.Is(err, alchemy.ErrNoAPIKey) {
					return err
				}
				logger.WarnCtx(ctx, "Failed to fetch owned NFTs",
					zap.String("owner", owner),
					zap.String("contract", contract),
					zap.Error(err))
				return nil
			}
			items := make([]CheckMetadata, 0, len(nfts))
			for j := range nfts {
				items = append(items, *FromAlchemy(&nfts[j]))
			}
			perCollection[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owned := []CheckMetadata{}
	for _, items := range perCollection {
		owned = append(owned, items...)
	}
	return owned, nil
}

func uniqueIDs(tokenIDs []int64) []int64 {
	seen := make(map[int64]struct{}, len(tokenIDs))
	ids := make([]int64, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
