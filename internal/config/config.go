package config

import (
	"os"
	"strconv"
	"time"

	"github.com/godilite/dealer-risk/internal/risk"
	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	RedisKeyPrefix        string
	GRPCPort              int
	GRPCReflectionEnabled bool
	CacheTTL              time.Duration

	// Risk model overrides. Zero means "keep the default".
	BasePrice         float64
	MaxDelayDays      int
	MaxRepeatIssues   int
	RecencyWindowDays int
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/dealer_risk.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix:        getEnv("REDIS_KEY_PREFIX", "dealer-risk:"),
		GRPCPort:              getEnvInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getEnvBool("GRPC_REFLECTION_ENABLED", false),
		CacheTTL:              getEnvDuration("CACHE_TTL", 10*time.Minute),
		BasePrice:             getEnvFloat("RISK_BASE_PRICE", 0),
		MaxDelayDays:          getEnvInt("RISK_MAX_DELAY_DAYS", 0),
		MaxRepeatIssues:       getEnvInt("RISK_MAX_REPEAT_ISSUES", 0),
		RecencyWindowDays:     getEnvInt("RISK_RECENCY_WINDOW_DAYS", 0),
	}
}

// RiskConfig applies the overrides to the default model and validates the result.
func (c *Config) RiskConfig() (risk.Config, error) {
	rc := risk.DefaultConfig()
	if c.BasePrice > 0 {
		rc.BasePrice = c.BasePrice
	}
	if c.MaxDelayDays > 0 {
		rc.MaxDelayDays = c.MaxDelayDays
	}
	if c.MaxRepeatIssues > 0 {
		rc.MaxRepeatIssues = c.MaxRepeatIssues
	}
	if c.RecencyWindowDays > 0 {
		rc.RecencyWindowDays = c.RecencyWindowDays
	}
	if err := rc.Validate(); err != nil {
		return risk.Config{}, err
	}
	return rc, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
