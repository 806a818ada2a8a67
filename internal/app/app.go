package app

import (
	"context"
	"os"

	"github.com/maikimilk/KyuyoBiyori/internal/middleware"
	"github.com/maikimilk/KyuyoBiyori/internal/ocr"
	"github.com/maikimilk/KyuyoBiyori/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every module on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	provider := buildOCRProvider()

	router.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))

	return registerModules(router, sqlDB, gormDB, redisClient, provider)
}

// buildOCRProvider picks the document reader. Without an API key the upload
// endpoint still works: extraction degrades to an empty preview the user
// fills in by hand.
func buildOCRProvider() ocr.Provider {
	if os.Getenv("GEMINI_API_KEY") == "" {
		zap.L().Info("GEMINI_API_KEY not set, document extraction disabled")
		return ocr.Disabled{}
	}

	provider, err := ocr.NewGeminiProvider(context.Background(), zap.L())
	if err != nil {
		zap.L().Warn("gemini client init failed, document extraction disabled", zap.Error(err))
		return ocr.Disabled{}
	}
	return provider
}
