package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultHTTPTimeout = 15 * time.Second

type Config struct {
	APIBaseURL     string
	HTTPTimeout    time.Duration
	StorageBackend string // "file" or "redis"
	CartFilePath   string
	RedisAddr      string
	DeviceID       string
	CartToken      string
	AppEnv         string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		HTTPTimeout:    parseTimeout(os.Getenv("HTTP_TIMEOUT")),
		StorageBackend: os.Getenv("STORAGE_BACKEND"),
		CartFilePath:   os.Getenv("CART_FILE_PATH"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		DeviceID:       os.Getenv("DEVICE_ID"),
		CartToken:      os.Getenv("CART_TOKEN"),
		AppEnv:         os.Getenv("APP_ENV"),
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("Environment variables not loaded properly: API_BASE_URL is required")
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "file"
	}
	if cfg.CartFilePath == "" {
		cfg.CartFilePath = "cart.json"
	}

	return cfg
}

func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return defaultHTTPTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultHTTPTimeout
	}
	return d
}
