package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment     string
	Port            string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	AllowedOrigins  []string
	LogLevel        string
	ShutdownTimeout time.Duration
	Chat            ChatConfig
}

// ChatConfig параметры realtime-подсистемы
type ChatConfig struct {
	HistoryLimit      int
	OutboundQueueSize int
	SendRate          float64
	SendBurst         int
}

// Load читает конфигурацию из окружения. Сначала подгружается .env.local, затем .env.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AllowedOrigins:  parseList(getEnv("ALLOWED_ORIGINS", "")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		Chat: ChatConfig{
			HistoryLimit:      getEnvAsInt("HISTORY_LIMIT", 50),
			OutboundQueueSize: getEnvAsInt("OUTBOUND_QUEUE_SIZE", 256),
			SendRate:          getEnvAsFloat("SEND_RATE", 5),
			SendBurst:         getEnvAsInt("SEND_BURST", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.Chat.HistoryLimit <= 0 || c.Chat.OutboundQueueSize <= 0 || c.Chat.SendBurst <= 0 || c.Chat.SendRate <= 0 {
		return fmt.Errorf("chat limits must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
