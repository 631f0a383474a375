package chronicles

import "github.com/gin-gonic/gin"

// registers chronicle listing routes
func RegisterRoutes(router *gin.RouterGroup, provider Provider) {
	router.GET("/chronicles", Handler(provider))
}
