package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/ratelimit"
)

const PAGE_SIZE = 100

var ErrNoAPIKey = errors.New("alchemy API key not configured")

// NFT is one item of the NFT API v2 response
type NFT struct {
	Contract         Contract               `json:"contract"`
	ID               TokenID                `json:"id"`
	Title            string                 `json:"title"`
	Description      json.RawMessage        `json:"description"`
	Media            []Media                `json:"media"`
	Metadata         map[string]interface{} `json:"metadata"`
	ContractMetadata *ContractMetadata      `json:"contractMetadata,omitempty"`
	TokenType        string                 `json:"tokenType,omitempty"`
	Error            string                 `json:"error,omitempty"`
}

// Contract is the contract reference of an NFT
type Contract struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// TokenID is the token identifier block of an NFT
type TokenID struct {
	TokenID       string         `json:"tokenId"`
	TokenMetadata *TokenMetadata `json:"tokenMetadata,omitempty"`
}

// TokenMetadata carries the token standard
type TokenMetadata struct {
	TokenType string `json:"tokenType"`
}

// Media is a rendered media entry
type Media struct {
	Gateway string `json:"gateway"`
	Raw     string `json:"raw"`
}

// ContractMetadata is the contract-level metadata returned with withMetadata=true
type ContractMetadata struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	TokenType string `json:"tokenType"`
}

// OwnedNFTsResponse is the getNFTs response body
type OwnedNFTsResponse struct {
	OwnedNFTs  []NFT  `json:"ownedNfts"`
	TotalCount int    `json:"totalCount"`
	PageKey    string `json:"pageKey,omitempty"`
}

// DecimalTokenID returns the token id in base 10, or "" when it does not parse
func (n *NFT) DecimalTokenID() string {
	id, err := domain.ParseQuantity(n.ID.TokenID)
	if err != nil {
		return ""
	}
	return id.String()
}

// Exists reports whether the API returned a real token rather than an error placeholder
func (n *NFT) Exists() bool {
	return n.Error == "" && n.DecimalTokenID() != ""
}

// DescriptionText returns the description, which the API sends as a string or a list of strings
func (n *NFT) DescriptionText() string {
	if len(n.Description) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(n.Description, &s); err == nil {
		return s
	}
	var parts []string
	if err := json.Unmarshal(n.Description, &parts); err == nil {
		return strings.Join(parts, "\n")
	}
	return ""
}

// Client defines the interface for Alchemy NFT API operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/alchemy_client.go -package=mocks -mock_names=Client=MockAlchemyClient
type Client interface {
	// GetNFTsForOwner returns the NFTs of one collection held by owner
	GetNFTsForOwner(ctx context.Context, owner, contractAddress string) ([]NFT, error)

	// GetNFTMetadata returns a single NFT by contract and decimal token id
	GetNFTMetadata(ctx context.Context, contractAddress, tokenID string) (*NFT, error)
}

// AlchemyClient implements the Alchemy NFT API v2 client
type AlchemyClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	baseURL        string
	apiKey         string
	fetchTimeout   time.Duration
}

// NewClient creates a new Alchemy client for the given network base URL.
// A positive fetchTimeout bounds every single HTTP request.
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, baseURL string, apiKey string, fetchTimeout time.Duration) Client {
	return &AlchemyClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		fetchTimeout:   fetchTimeout,
	}
}

// GetNFTsForOwner fetches the first page of owner holdings filtered to one contract
func (c *AlchemyClient) GetNFTsForOwner(ctx context.Context, owner, contractAddress string) ([]NFT, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/%s/getNFTs?owner=%s&contractAddresses[]=%s&withMetadata=true&pageSize=%d",
		c.baseURL,
		c.apiKey,
		strings.ToLower(owner),
		strings.ToLower(contractAddress),
		PAGE_SIZE,
	)

	var response OwnedNFTsResponse
	if err := c.get(ctx, url, &response); err != nil {
		return nil, err
	}
	return response.OwnedNFTs, nil
}

// GetNFTMetadata fetches a single NFT
func (c *AlchemyClient) GetNFTMetadata(ctx context.Context, contractAddress, tokenID string) (*NFT, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/%s/getNFTMetadata?contractAddress=%s&tokenId=%s&refreshCache=false",
		c.baseURL,
		c.apiKey,
		strings.ToLower(contractAddress),
		tokenID,
	)

	var nft NFT
	if err := c.get(ctx, url, &nft); err != nil {
		return nil, err
	}
	return &nft, nil
}

func (c *AlchemyClient) get(ctx context.Context, url string, v interface{}) error {
	headers := map[string]string{
		"Accept": "application/json",
	}

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, ratelimit.ProviderAlchemy, func(ctx context.Context) ([]byte, error) {
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
			defer cancel()
		}
		return c.httpClient.GetBytes(ctx, url, headers)
	})
	if err != nil {
		return fmt.Errorf("failed to call Alchemy API: %w", err)
	}

	if err := json.Unmarshal(respBody, v); err != nil {
		return fmt.Errorf("failed to unmarshal Alchemy response: %w", err)
	}
	return nil
}
