package main

import (
	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/api/rest/analysis"
	"github.com/harishkotra/onchain-chronicler/api/rest/chronicles"
	"github.com/harishkotra/onchain-chronicler/api/rest/health"
	"github.com/harishkotra/onchain-chronicler/api/rest/leaderboard"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.GET("/health", health.Handler)

	api := router.Group("/api")

	{
		leaderboard.RegisterRoutes(api, server.aggregator)
		chronicles.RegisterRoutes(api, server.aggregator)
		analysis.RegisterRoutes(api, server.orchestrator)
	}
}
