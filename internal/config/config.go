package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage driver values
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string

	StorageDriver string // "memory" or "postgres"
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string

	// APIKey protects the API. Empty disables authentication.
	APIKey         string
	TrustedProxies []string

	IngredientsPath string
	RecipesPath     string

	// DiscoveryPollSpec is the cron spec driving the passive discovery poll
	DiscoveryPollSpec string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		ServiceName:       getEnv("SERVICE_NAME", "moonling-core"),
		Version:           getEnv("VERSION", "dev"),
		StorageDriver:     getEnv("STORAGE_DRIVER", StorageMemory),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "moonling"),
		APIKey:            getEnv("API_KEY", ""),
		IngredientsPath:   getEnv("INGREDIENTS_PATH", "configs/ingredients.json"),
		RecipesPath:       getEnv("RECIPES_PATH", "configs/recipes.json"),
		DiscoveryPollSpec: getEnv("DISCOVERY_POLL_SPEC", "@every 15m"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(p))
		}
	}

	if cfg.StorageDriver != StorageMemory && cfg.StorageDriver != StoragePostgres {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER value: %s", cfg.StorageDriver)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
