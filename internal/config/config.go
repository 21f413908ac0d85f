// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// StoreConfig holds persistence settings. Type selects the adapter:
// "file" (default), "mongo" or "postgres".
type StoreConfig struct {
	Type     string
	DataDir  string // file adapter: directory holding the JSON documents
	MongoURI string // mongo adapter
	Postgres string // postgres adapter connection string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Store          *StoreConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultServerConfig provides default server settings
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultStoreConfig provides default persistence settings
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Type:    "file",
		DataDir: "data",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Silent failure when no .env exists, which is fine
	_ = godotenv.Load()

	serverConfig := DefaultServerConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	storeConfig := DefaultStoreConfig()

	if storeType := os.Getenv("STORE_TYPE"); storeType != "" {
		storeConfig.Type = storeType
	}
	storeConfig.DataDir = getEnvOrDefault("DATA_DIR", storeConfig.DataDir)
	storeConfig.MongoURI = os.Getenv("MONGODB_URI")
	storeConfig.Postgres = os.Getenv("DATABASE_URL")

	config := &Config{
		Server:         serverConfig,
		Store:          storeConfig,
		AllowedOrigins: []string{"*"}, // Default to allow all origins
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
