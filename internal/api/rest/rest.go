package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Operational endpoints (no prefix)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Check metadata
		api.GET("/check/:id", handler.GetCheck)
		api.POST("/check/batch", handler.BatchChecks)

		// Aggregator views
		api.GET("/deposited-nfts/:address", handler.GetDepositedNFTs)
		api.GET("/feed", handler.GetFeed)

		// Owned tokens of both collections
		api.GET("/nfts/:address", handler.GetNFTs)
		api.POST("/nfts/:address", handler.GetNFTs)

		// Alchemy address activity webhook
		api.GET("/webhook/alchemy", handler.WebhookLiveness)
		api.POST("/webhook/alchemy", handler.ReceiveWebhook)
	}
}
