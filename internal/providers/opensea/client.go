package opensea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/ratelimit"
)

var ErrNoAPIKey = errors.New("no API key provided")

// NFTMetadata represents the NFT metadata from OpenSea API
type NFTMetadata struct {
	Identifier      string  `json:"identifier"`
	Collection      string  `json:"collection"`
	Contract        string  `json:"contract"`
	TokenStandard   string  `json:"token_standard"`
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	ImageURL        *string `json:"image_url"`
	DisplayImageURL *string `json:"display_image_url"`
	AnimationURL    *string `json:"animation_url"`
	MetadataURL     *string `json:"metadata_url"`
	Traits          []Trait `json:"traits"`
}

// Trait represents a trait/attribute of an NFT
type Trait struct {
	TraitType   string      `json:"trait_type"`
	DisplayType *string     `json:"display_type"`
	MaxValue    interface{} `json:"max_value"`
	Value       interface{} `json:"value"`
}

// NFTResponse represents the response from OpenSea Get NFT endpoint
type NFTResponse struct {
	NFT    NFTMetadata `json:"nft"`
	Errors []string    `json:"errors,omitempty"`
}

// Client defines the interface for OpenSea client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/opensea_client.go -package=mocks -mock_names=Client=MockOpenSeaClient
type Client interface {
	// Enabled reports whether an API key is configured
	Enabled() bool

	// GetNFT fetches NFT metadata from OpenSea API v2
	GetNFT(ctx context.Context, chain, contractAddress, tokenID string) (*NFTMetadata, error)
}

// OpenSeaClient implements OpenSea client
type OpenSeaClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	apiURL         string
	apiKey         string
	fetchTimeout   time.Duration
}

// NewClient creates a new OpenSea client. A positive fetchTimeout bounds every single HTTP request.
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, apiURL string, apiKey string, fetchTimeout time.Duration) Client {
	return &OpenSeaClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		apiURL:         strings.TrimSuffix(apiURL, "/"),
		apiKey:         apiKey,
		fetchTimeout:   fetchTimeout,
	}
}

func (c *OpenSeaClient) Enabled() bool {
	return c.apiKey != ""
}

// GetNFT fetches NFT metadata from OpenSea API v2
func (c *OpenSeaClient) GetNFT(ctx context.Context, chain, contractAddress, tokenID string) (*NFTMetadata, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/chain/%s/contract/%s/nfts/%s",
		c.apiURL,
		chain,
		strings.ToLower(contractAddress),
		tokenID,
	)

	headers := map[string]string{
		"X-API-KEY": c.apiKey,
	}

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, ratelimit.ProviderOpenSea, func(ctx context.Context) ([]byte, error) {
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
			defer cancel()
		}
		return c.httpClient.GetBytes(ctx, url, headers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenSea API: %w", err)
	}

	var response NFTResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OpenSea response: %w", err)
	}

	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("OpenSea API errors: %v", response.Errors)
	}

	return &response.NFT, nil
}

// TraitMap flattens traits into a key-value blob keyed by trait type
func TraitMap(traits []Trait) map[string]interface{} {
	m := make(map[string]interface{}, len(traits))
	for _, trait := range traits {
		if trait.TraitType == "" {
			continue
		}
		m[trait.TraitType] = trait.Value
	}
	return m
}
