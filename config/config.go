package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Matching   MatchingConfig
	Storefront StorefrontConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds the comparison engine settings
type MatchingConfig struct {
	IntraSourceThreshold int    `mapstructure:"intra_source_threshold"`
	CrossSourceThreshold int    `mapstructure:"cross_source_threshold"`
	MinNameLength        int    `mapstructure:"min_name_length"`
	CatalogPath          string `mapstructure:"catalog_path"` // empty: built-in catalog
	SplitTiedPoints      bool   `mapstructure:"split_tied_points"`
	SampleLimit          int    `mapstructure:"sample_limit"`
}

// StorefrontConfig holds storefront collection settings
type StorefrontConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxCards          int           `mapstructure:"max_cards"`
	MaxRetries        int           `mapstructure:"max_retries"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// PRICELENS_MATCHING_INTRA_SOURCE_THRESHOLD -> matching.intra_source_threshold
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Matching defaults
	v.SetDefault("matching.intra_source_threshold", 88)
	v.SetDefault("matching.cross_source_threshold", 75)
	v.SetDefault("matching.min_name_length", 3)
	v.SetDefault("matching.catalog_path", "")
	v.SetDefault("matching.split_tied_points", false)
	v.SetDefault("matching.sample_limit", 30)

	// Storefront defaults
	v.SetDefault("storefront.enabled", true)
	v.SetDefault("storefront.timeout", "30s")
	v.SetDefault("storefront.requests_per_second", 2)
	v.SetDefault("storefront.burst", 4)
	v.SetDefault("storefront.max_cards", 12)
	v.SetDefault("storefront.max_retries", 3)
	v.SetDefault("storefront.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	m := config.Matching
	if m.IntraSourceThreshold < 0 || m.IntraSourceThreshold > 100 {
		return fmt.Errorf("intra-source threshold must be between 0 and 100, got: %d", m.IntraSourceThreshold)
	}
	if m.CrossSourceThreshold < 0 || m.CrossSourceThreshold > 100 {
		return fmt.Errorf("cross-source threshold must be between 0 and 100, got: %d", m.CrossSourceThreshold)
	}
	if m.IntraSourceThreshold < m.CrossSourceThreshold {
		return fmt.Errorf("intra-source threshold (%d) must not be below cross-source threshold (%d)",
			m.IntraSourceThreshold, m.CrossSourceThreshold)
	}
	if m.MinNameLength < 1 {
		return fmt.Errorf("minimum name length must be at least 1, got: %d", m.MinNameLength)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// loadEnvFile exports variables from ./.env. Variables already set in the
// environment win. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load(".env")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
