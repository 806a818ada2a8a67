package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/maikimilk/KyuyoBiyori/internal/shared/apperror"
	"github.com/maikimilk/KyuyoBiyori/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	settingsKey       = "kyuyobiyori:settings"
	DefaultThemeColor = "#319795"
)

// Settings are the per-installation display preferences. There is no user
// table: this is a single-household tool, one settings blob per deployment.
type Settings struct {
	ThemeColor string `json:"theme_color"`
	DarkMode   bool   `json:"dark_mode"`
}

type UpdateSettingsRequest struct {
	ThemeColor string `json:"theme_color" binding:"omitempty,hexcolor"`
	DarkMode   *bool  `json:"dark_mode"`
}

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error)
}

type service struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(rdb *redis.Client, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{rdb: rdb, logger: logger.Named("settings.service")}
}

func defaults() Settings {
	return Settings{ThemeColor: DefaultThemeColor, DarkMode: false}
}

func (s *service) Get(ctx context.Context) (Settings, error) {
	val, err := s.rdb.Get(ctx, settingsKey).Result()
	if errors.Is(err, redis.Nil) {
		return defaults(), nil
	}
	if err != nil {
		s.logger.Error("settings load failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return Settings{}, apperror.ErrStoreUnavailable
	}

	var cfg Settings
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		// A corrupt blob should not brick the UI
		s.logger.Warn("settings blob corrupt, serving defaults", zap.Error(err))
		return defaults(), nil
	}
	if cfg.ThemeColor == "" {
		cfg.ThemeColor = DefaultThemeColor
	}
	return cfg, nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	if req.ThemeColor != "" {
		cfg.ThemeColor = req.ThemeColor
	}
	if req.DarkMode != nil {
		cfg.DarkMode = *req.DarkMode
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return Settings{}, err
	}

	if err := s.rdb.Set(ctx, settingsKey, payload, 0).Err(); err != nil {
		s.logger.Error("settings store failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return Settings{}, apperror.ErrStoreUnavailable
	}

	return cfg, nil
}
