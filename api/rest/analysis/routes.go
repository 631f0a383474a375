package analysis

import "github.com/gin-gonic/gin"

// registers analysis routes
func RegisterRoutes(router *gin.RouterGroup, orch Orchestrator) {
	router.POST("/check-chronicle-status", StatusHandler(orch))
	router.POST("/analyze-transaction", AnalyzeHandler(orch))
}
