package payslip

import (
	"github.com/maikimilk/KyuyoBiyori/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the payslip API under the given group. The write
// endpoints are idempotency-guarded; upload carries its own rate limit
// because OCR is the most expensive call in the system.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	payslips := r.Group("/payslips")
	{
		payslips.POST("/upload", middleware.RateLimitByIP(1, 5), handler.Upload)
		payslips.POST("", middleware.Idempotency(rdb), handler.Save)
		payslips.GET("", handler.GetAll)
		payslips.GET("/:id", handler.GetByID)
		payslips.PUT("/:id/items", handler.UpdateItems)
		payslips.POST("/:id/reparse", handler.Reparse)
		payslips.DELETE("/:id", handler.Delete)
	}
}
