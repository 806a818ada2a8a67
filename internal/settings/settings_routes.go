package settings

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	settings := r.Group("/settings")
	{
		settings.GET("", handler.Get)
		settings.PUT("", handler.Update)
	}
}
