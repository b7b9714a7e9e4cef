package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Corpus files
	QuotesFile    string
	NeighborsFile string

	// AI configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	AIModel       string
	AITemperature float64
	AIMaxTokens   int

	// Engine tuning
	CacheTTLSeconds   int
	RateLimit         int
	RateWindowSeconds int
	RecentCapacity    int

	// HTTP
	AllowedOrigins []string

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		QuotesFile:    getEnv("QUOTES_FILE", "data/quotes.jsonl"),
		NeighborsFile: getEnv("NEIGHBORS_FILE", "data/neighbors.json"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		AIModel:       getEnv("AI_MODEL", "gpt-4o-mini"),
		AITemperature: getEnvFloat("AI_TEMPERATURE", 0.7),
		AIMaxTokens:   getEnvInt("AI_MAX_TOKENS", 300),

		CacheTTLSeconds:   getEnvInt("CACHE_TTL_SECONDS", 3600),
		RateLimit:         getEnvInt("RATE_LIMIT", 30),
		RateWindowSeconds: getEnvInt("RATE_WINDOW_SECONDS", 60),
		RecentCapacity:    getEnvInt("RECENT_CAPACITY", 20),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in production")
		}
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive")
	}
	if c.RateWindowSeconds <= 0 {
		return fmt.Errorf("RATE_WINDOW_SECONDS must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable with a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
