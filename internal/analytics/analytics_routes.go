package analytics

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/summary", handler.Summary)
		analytics.GET("/stats", handler.Stats)
		analytics.GET("/breakdown", handler.Breakdown)
	}
}
