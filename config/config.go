package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DataFile      string
	DatabaseURL   string
	BaseURL       string
	QRDir         string
	DefaultTheme  string
	AdminPassword string
	Port          string
	GoEnv         string
	LogLevel      string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production (Railway/Heroku), environment variables are set
			// directly so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DataFile:      getEnv("DATA_FILE", "data.json"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		BaseURL:       strings.TrimRight(strings.TrimSpace(getEnv("BASE_URL", "http://localhost:8080")), "/"),
		QRDir:         getEnv("QR_DIR", "static/qr"),
		DefaultTheme:  getEnv("RESTAURANT_DEFAULT_THEME", "default"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "adminpass"),
		Port:          getEnv("PORT", "8080"),
		GoEnv:         env,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
