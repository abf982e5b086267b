package rest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/blackcheck/black-check-api/internal/aggregator"
	"github.com/blackcheck/black-check-api/internal/metadata"
	"github.com/blackcheck/black-check-api/internal/webhook"
)

// batchChecksRequest accepts token ids as JSON numbers or numeric strings
type batchChecksRequest struct {
	TokenIDs []json.RawMessage `json:"tokenIds"`
}

// tokenIDs returns the ids that parse as non-negative integers
func (r batchChecksRequest) tokenIDs() []int64 {
	ids := make([]int64, 0, len(r.TokenIDs))
	for _, raw := range r.TokenIDs {
		text := string(raw)
		var quoted string
		if err := json.Unmarshal(raw, &quoted); err == nil {
			text = quoted
		}
		id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil || id < 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

type nftsResponse struct {
	NFTs []metadata.CheckMetadata `json:"nfts"`
}

type depositedNFTsResponse struct {
	DepositedNFTs   []aggregator.DepositedNFT `json:"depositedNfts"`
	Address         string                    `json:"address"`
	ContractAddress string                    `json:"contractAddress"`
	Count           int                       `json:"count"`
}

type feedResponse struct {
	Success bool                  `json:"success"`
	Data    []aggregator.FeedItem `json:"data"`
	Total   int                   `json:"total"`
}

type webhookResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details string          `json:"details,omitempty"`
	Result  *webhook.Result `json:"result,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}
