package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port     int
	LogLevel string
	LogDir   string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Upstream API credentials for the client-credentials grant
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`

	// Characters to poll, as canonical region|realm|name keys
	Characters []string `validate:"required,min=1,dive,characterkey"`

	Locale      string
	StorageDir  string
	PollHourUTC int `validate:"min=0,max=23"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		LogDir:       getEnv("LOG_DIR", "logs"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", "armorytrack"),
		ClientID:     getEnv("WOW_CLIENT_ID", ""),
		ClientSecret: getEnv("WOW_CLIENT_SECRET", ""),
		Characters:   splitList(getEnv("CHARACTERS", "")),
		Locale:       getEnv("LOCALE", "en_US"),
		StorageDir:   getEnv("STORAGE_DIR", "storage/equipment"),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	pollHour, err := getEnvInt("POLL_HOUR_UTC", 3)
	if err != nil {
		return nil, err
	}
	cfg.PollHourUTC = pollHour

	if err := Validate(cfg); err != nil {
		return nil, err
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

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}

// splitList splits a comma-separated env value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, entry := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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
