package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/aggregator"
	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/metadata"
	"github.com/blackcheck/black-check-api/internal/providers/alchemy"
	"github.com/blackcheck/black-check-api/internal/store"
	"github.com/blackcheck/black-check-api/internal/webhook"
)

const (
	serviceName = "black-check-api"

	// DefaultMaxWebhookBytes caps the webhook body size
	DefaultMaxWebhookBytes int64 = 1 << 20

	healthCheckTimeout = 3 * time.Second
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetCheck resolves the metadata of one check
	// GET /api/check/:id
	GetCheck(c *gin.Context)

	// BatchChecks resolves many checks at once, omitting unresolvable ids
	// POST /api/check/batch {"tokenIds": [1, "2"]}
	BatchChecks(c *gin.Context)

	// GetDepositedNFTs lists the checks an address still has deposited in the aggregator
	// GET /api/deposited-nfts/:address
	GetDepositedNFTs(c *gin.Context)

	// GetFeed returns the latest aggregator activity
	// GET /api/feed
	GetFeed(c *gin.Context)

	// GetNFTs lists the checks of both collections held by an address
	// GET|POST /api/nfts/:address
	GetNFTs(c *gin.Context)

	// WebhookLiveness lets the provider verify the endpoint
	// GET /api/webhook/alchemy
	WebhookLiveness(c *gin.Context)

	// ReceiveWebhook records an address activity notification
	// POST /api/webhook/alchemy
	ReceiveWebhook(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// Config holds handler settings
type Config struct {
	AlchemyConfigured bool
	WebhookSigningKey string
	MaxWebhookBytes   int64
}

// handler implements the Handler interface
type handler struct {
	config     Config
	resolver   metadata.Resolver
	aggregator aggregator.Aggregator
	ingestor   webhook.Ingestor
	store      store.Store
	clock      adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(
	cfg Config,
	resolver metadata.Resolver,
	agg aggregator.Aggregator,
	ingestor webhook.Ingestor,
	st store.Store,
	clock adapter.Clock,
) Handler {
	if cfg.MaxWebhookBytes <= 0 {
		cfg.MaxWebhookBytes = DefaultMaxWebhookBytes
	}
	return &handler{
		config:     cfg,
		resolver:   resolver,
		aggregator: agg,
		ingestor:   ingestor,
		store:      st,
		clock:      clock,
	}
}

func (h *handler) GetCheck(c *gin.Context) {
	if !h.config.AlchemyConfigured {
		respondAlchemyNotConfigured(c)
		return
	}

	tokenID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tokenID < 0 {
		respondBadRequest(c, "Invalid token ID")
		return
	}

	check, err := h.resolver.ResolveOne(c.Request.Context(), tokenID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCheckNotFound):
			respondNotFound(c, "Check not found")
		case errors.Is(err, alchemy.ErrNoAPIKey):
			respondAlchemyNotConfigured(c)
		default:
			respondInternalError(c, err, "Failed to fetch check", zap.Int64("tokenId", tokenID))
		}
		return
	}

	c.JSON(http.StatusOK, check)
}

func (h *handler) BatchChecks(c *gin.Context) {
	if !h.config.AlchemyConfigured {
		respondAlchemyNotConfigured(c)
		return
	}

	var req batchChecksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tokenIds array is required", err.Error())
		return
	}

	tokenIDs := req.tokenIDs()
	if len(tokenIDs) == 0 {
		respondBadRequest(c, "tokenIds array is required")
		return
	}

	resolved := h.resolver.ResolveBatch(c.Request.Context(), tokenIDs)

	response := make(map[string]*metadata.CheckMetadata, len(resolved))
	for id, check := range resolved {
		response[strconv.FormatInt(id, 10)] = check
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) GetDepositedNFTs(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidAddress(address) {
		respondBadRequest(c, "Invalid address format")
		return
	}

	deposited, err := h.aggregator.DepositedNFTs(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			respondBadRequest(c, "Invalid address format")
			return
		}
		respondInternalError(c, err, "Failed to fetch deposited NFTs", zap.String("address", address))
		return
	}

	c.JSON(http.StatusOK, depositedNFTsResponse{
		DepositedNFTs:   deposited,
		Address:         address,
		ContractAddress: h.aggregator.AggregatorAddress(),
		Count:           len(deposited),
	})
}

func (h *handler) GetFeed(c *gin.Context) {
	items, err := h.aggregator.Feed(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch feed")
		return
	}

	c.JSON(http.StatusOK, feedResponse{
		Success: true,
		Data:    items,
		Total:   len(items),
	})
}

func (h *handler) GetNFTs(c *gin.Context) {
	if !h.config.AlchemyConfigured {
		respondAlchemyNotConfigured(c)
		return
	}

	address := c.Param("address")
	if !domain.IsValidAddress(address) {
		respondBadRequest(c, "Invalid address format")
		return
	}

	nfts, err := h.resolver.ListOwned(c.Request.Context(), address)
	if err != nil {
		switch {
		case errors.Is(err, alchemy.ErrNoAPIKey):
			respondAlchemyNotConfigured(c)
		case errors.Is(err, domain.ErrInvalidAddress):
			respondBadRequest(c, "Invalid address format")
		default:
			respondInternalError(c, err, "Failed to fetch NFTs", zap.String("address", address))
		}
		return
	}

	c.JSON(http.StatusOK, nftsResponse{NFTs: nfts})
}

func (h *handler) WebhookLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, webhookResponse{
		Success: true,
		Message: "Alchemy webhook endpoint is active",
	})
}

func (h *handler) ReceiveWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, webhookResponse{
			Success: false,
			Error:   "Invalid webhook payload",
			Details: err.Error(),
		})
		return
	}

	if err := webhook.VerifySignature(h.config.WebhookSigningKey, body, c.GetHeader(webhook.SignatureHeader)); err != nil {
		logger.WarnCtx(ctx, "Rejected webhook with invalid signature", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, webhookResponse{
			Success: false,
			Error:   "Invalid signature",
		})
		return
	}

	notification, err := webhook.Decode(body, h.clock.Now())
	if err != nil {
		logger.WarnCtx(ctx, "Rejected malformed webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, webhookResponse{
			Success: false,
			Error:   "Invalid webhook payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.ingestor.Ingest(ctx, notification)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("webhookId", notification.Payload.ID))
		c.JSON(http.StatusInternalServerError, webhookResponse{
			Success: false,
			Error:   "Internal server error",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, webhookResponse{
		Success: true,
		Message: "Webhook processed successfully",
		Result:  result,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.WarnCtx(ctx, "Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, healthResponse{
			Status:  "unavailable",
			Service: serviceName,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}
