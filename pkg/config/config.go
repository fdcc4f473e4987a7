// Package config provides configuration management for the bookkeeping server.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Server ServerConfig
	Books  BooksConfig
	Debug  bool
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Port        int
	UploadToken string
}

// BooksConfig represents bookkeeping storage configuration.
type BooksConfig struct {
	DBPath        string
	ColumnMapPath string
	MaxUploadSize int64
}

const defaultMaxUploadSize = 16 << 20 // 16 MB

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	port, err := parseIntEnv("BOOKKEEPER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKKEEPER_PORT: %w", err)
	}

	maxUpload, err := parseInt64Env("BOOKKEEPER_MAX_UPLOAD_BYTES", defaultMaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKKEEPER_MAX_UPLOAD_BYTES: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        port,
			UploadToken: os.Getenv("BOOKKEEPER_UPLOAD_TOKEN"),
		},
		Books: BooksConfig{
			DBPath:        getEnvOrDefault("BOOKKEEPER_DB_PATH", "./data/bookkeeper.db"),
			ColumnMapPath: os.Getenv("BOOKKEEPER_COLUMN_MAP"),
			MaxUploadSize: maxUpload,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, key := range required {
		var value string
		switch key {
		case "dbPath":
			value = c.Books.DBPath
		case "port":
			if c.Server.Port != 0 {
				value = "set"
			}
		case "uploadToken":
			value = c.Server.UploadToken
		case "columnMap":
			value = c.Books.ColumnMapPath
		}

		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables", strings.Join(missing, ", "))
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an integer environment variable with a default value.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

// parseInt64Env parses an int64 environment variable with a default value.
func parseInt64Env(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
