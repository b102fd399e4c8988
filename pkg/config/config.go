package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Service ServiceConfig
	OpenAI  OpenAIConfig
	Redis   RedisConfig
	OTEL    OTELConfig
	NLU     NLUConfig
}

// ServiceConfig holds service identity configuration
type ServiceConfig struct {
	Name    string
	Env     string
	Version string
}

// OpenAIConfig holds the embedding backend configuration
type OpenAIConfig struct {
	APIKey         string
	EmbeddingModel string
	BaseURL        string
	RateLimitRPM   int
	RateLimitBurst int
}

// RedisConfig holds Redis configuration for the embedding cache
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	Endpoint string
	Enabled  bool
}

// NLUConfig holds pipeline tuning and data file locations
type NLUConfig struct {
	ExemplarsPath      string
	GoldenSetPath      string
	IntentThreshold    float64
	EmbedTimeoutMillis int
	CacheTTLSeconds    int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "concierge-nlu"),
			Env:     getEnv("SERVICE_ENV", "development"),
			Version: getEnv("SERVICE_VERSION", "1.0.0"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			Endpoint: getEnv("OTEL_ENDPOINT", ""),
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
		},
		NLU: NLUConfig{
			ExemplarsPath:      getEnv("NLU_EXEMPLARS_PATH", ""),
			GoldenSetPath:      getEnv("NLU_GOLDEN_SET_PATH", "config/golden_utterances.json"),
			IntentThreshold:    getEnvAsFloat("NLU_INTENT_THRESHOLD", 0.5),
			EmbedTimeoutMillis: getEnvAsInt("NLU_EMBED_TIMEOUT_MS", 5000),
			CacheTTLSeconds:    getEnvAsInt("NLU_CACHE_TTL_SECONDS", 86400),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
