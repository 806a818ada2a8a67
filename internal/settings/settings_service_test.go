package settings_test

import (
	"context"
	"testing"

	"github.com/maikimilk/KyuyoBiyori/internal/settings"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const settingsKey = "kyuyobiyori:settings"

func boolPtr(v bool) *bool { return &v }

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(settingsKey).RedisNil()

	svc := settings.NewService(rdb, nil)

	cfg, err := svc.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, settings.DefaultThemeColor, cfg.ThemeColor)
	assert.False(t, cfg.DarkMode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReturnsStoredSettings(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(settingsKey).SetVal(`{"theme_color":"#2b6cb0","dark_mode":true}`)

	svc := settings.NewService(rdb, nil)

	cfg, err := svc.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "#2b6cb0", cfg.ThemeColor)
	assert.True(t, cfg.DarkMode)
}

func TestGetCorruptBlobFallsBackToDefaults(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(settingsKey).SetVal(`{not json`)

	svc := settings.NewService(rdb, nil)

	cfg, err := svc.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, settings.DefaultThemeColor, cfg.ThemeColor)
}

func TestUpdateMergesPartialChanges(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(settingsKey).SetVal(`{"theme_color":"#2b6cb0","dark_mode":false}`)
	mock.ExpectSet(settingsKey, []byte(`{"theme_color":"#2b6cb0","dark_mode":true}`), 0).SetVal("OK")

	svc := settings.NewService(rdb, nil)

	cfg, err := svc.Update(context.Background(), settings.UpdateSettingsRequest{
		DarkMode: boolPtr(true),
	})

	assert.NoError(t, err)
	// Theme left untouched, only dark mode flipped
	assert.Equal(t, "#2b6cb0", cfg.ThemeColor)
	assert.True(t, cfg.DarkMode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateThemeColor(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(settingsKey).RedisNil()
	mock.ExpectSet(settingsKey, []byte(`{"theme_color":"#e53e3e","dark_mode":false}`), 0).SetVal("OK")

	svc := settings.NewService(rdb, nil)

	cfg, err := svc.Update(context.Background(), settings.UpdateSettingsRequest{
		ThemeColor: "#e53e3e",
	})

	assert.NoError(t, err)
	assert.Equal(t, "#e53e3e", cfg.ThemeColor)
	assert.NoError(t, mock.ExpectationsWereMet())
}
