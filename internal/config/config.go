package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseFile string
	LogLevel     string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// OpenRouter
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterModels []string

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseFile:      getEnv("DATABASE_FILE", "data/docqa.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		OpenRouterModels:  splitModels(getEnv("OPENROUTER_MODELS", "openai/gpt-4o-mini,openai/gpt-4o,anthropic/claude-3.5-haiku")),
		MaxFileSize:       5 * 1024 * 1024,
	}

	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	return cfg, nil
}

func splitModels(value string) []string {
	var models []string
	for _, m := range strings.Split(value, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
