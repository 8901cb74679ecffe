package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL   = "https://www.cagematch.net"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type Config struct {
	Server    ServerConfig
	Cagematch CagematchConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type CagematchConfig struct {
	BaseURL   string
	UserAgent string
	// Timeout of zero leaves the outbound client without a deadline.
	Timeout time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8000),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),
		},
		Cagematch: CagematchConfig{
			BaseURL:   getEnv("CAGEMATCH_BASE_URL", DefaultBaseURL),
			UserAgent: getEnv("CAGEMATCH_USER_AGENT", DefaultUserAgent),
			Timeout:   getEnvDuration("CAGEMATCH_TIMEOUT_SECONDS", 0, time.Second),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", false),
			TTL:     getEnvDuration("CACHE_TTL_MINUTES", 30, time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Cagematch.BaseURL == "" {
		return fmt.Errorf("CAGEMATCH_BASE_URL is required")
	}
	parsed, err := url.Parse(c.Cagematch.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("CAGEMATCH_BASE_URL must be an absolute URL, got %q", c.Cagematch.BaseURL)
	}
	if c.Cagematch.UserAgent == "" {
		return fmt.Errorf("CAGEMATCH_USER_AGENT is required")
	}
	if c.Cagematch.Timeout < 0 {
		return fmt.Errorf("CAGEMATCH_TIMEOUT_SECONDS must not be negative")
	}
	if c.Cache.Enabled {
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when CACHE_ENABLED is set")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("CACHE_TTL_MINUTES must be positive when CACHE_ENABLED is set")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * unit
}
