package app

import (
	"database/sql"

	"github.com/maikimilk/KyuyoBiyori/internal/analytics"
	"github.com/maikimilk/KyuyoBiyori/internal/messaging/kafka"
	"github.com/maikimilk/KyuyoBiyori/internal/ocr"
	"github.com/maikimilk/KyuyoBiyori/internal/payslip"
	"github.com/maikimilk/KyuyoBiyori/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	provider ocr.Provider,
) error {
	logger := zap.L()

	// --- Repositories ---
	payslipRepo := payslip.NewRepository(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	payslipService := payslip.NewServiceWithOutbox(db, payslipRepo, outboxRepo, provider, logger)
	analyticsService := analytics.NewService(payslipRepo, logger)
	settingsService := settings.NewService(rdb, logger)

	// --- Handlers ---
	payslipHandler := payslip.NewHandlerWithRedis(payslipService, rdb)
	analyticsHandler := analytics.NewHandler(analyticsService)
	settingsHandler := settings.NewHandler(settingsService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		payslip.RegisterRoutes(api, payslipHandler, rdb)
		analytics.RegisterRoutes(api, analyticsHandler)
		settings.RegisterRoutes(api, settingsHandler)
	}

	return nil
}
