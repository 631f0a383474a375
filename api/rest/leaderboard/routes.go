package leaderboard

import "github.com/gin-gonic/gin"

// registers leaderboard routes
func RegisterRoutes(router *gin.RouterGroup, provider Provider) {
	router.GET("/leaderboard", Handler(provider))
}
