package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("API_BASE_URL", "https://api.taja.shop")
		t.Setenv("HTTP_TIMEOUT", "30s")
		t.Setenv("STORAGE_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("DEVICE_ID", "device-123")
		t.Setenv("CART_TOKEN", "tok-1")
		t.Setenv("APP_ENV", "test")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "https://api.taja.shop", cfg.APIBaseURL)
		assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, "redis", cfg.StorageBackend)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "device-123", cfg.DeviceID)
		assert.Equal(t, "tok-1", cfg.CartToken)
		assert.Equal(t, "test", cfg.AppEnv)
	})

	t.Run("Defaults applied", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://api.taja.shop")
		t.Setenv("HTTP_TIMEOUT", "")
		t.Setenv("STORAGE_BACKEND", "")
		t.Setenv("CART_FILE_PATH", "")

		cfg := LoadConfig()

		assert.Equal(t, defaultHTTPTimeout, cfg.HTTPTimeout)
		assert.Equal(t, "file", cfg.StorageBackend)
		assert.Equal(t, "cart.json", cfg.CartFilePath)
	})
}

func TestParseTimeout(t *testing.T) {
	assert.Equal(t, defaultHTTPTimeout, parseTimeout(""))
	assert.Equal(t, defaultHTTPTimeout, parseTimeout("nonsense"))
	assert.Equal(t, defaultHTTPTimeout, parseTimeout("-5s"))
	assert.Equal(t, 2*time.Second, parseTimeout("2s"))
}
