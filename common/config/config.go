package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Queue     QueueConfig
	Identity  IdentityConfig
	Render    RenderConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// CacheConfig holds rendered-markup cache settings.
// Backend is "memory" or "redis".
type CacheConfig struct {
	Enabled       bool
	Backend       string
	DefaultTTL    time.Duration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int
}

// QueueConfig holds domain-event queue settings
type QueueConfig struct {
	Type      string // "memory" for now
	BufferLen int
}

// IdentityConfig selects the team-resolution strategy.
// Mode "header" reads X-Team-ID from each request; mode "static" serves a
// fixed team id (local development).
type IdentityConfig struct {
	Mode         string
	StaticTeamID string
}

// RenderConfig holds page render settings
type RenderConfig struct {
	CacheTTL time.Duration
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"), // Default to text for development
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "funnels"),
			User:        getEnv("POSTGRES_USER", "funnels"),
			Password:    getEnv("POSTGRES_PASSWORD", "funnels"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 50),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 10),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Cache: CacheConfig{
			Enabled:       getEnvBool("CACHE_ENABLED", true),
			Backend:       getEnv("CACHE_BACKEND", "memory"),
			DefaultTTL:    getEnvDuration("CACHE_DEFAULT_TTL", 1*time.Hour),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnvInt("REDIS_PORT", 6379),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Queue: QueueConfig{
			Type:      getEnv("QUEUE_TYPE", "memory"),
			BufferLen: getEnvInt("QUEUE_BUFFER_LEN", 1000),
		},
		Identity: IdentityConfig{
			Mode:         getEnv("IDENTITY_MODE", "header"),
			StaticTeamID: getEnv("IDENTITY_STATIC_TEAM_ID", ""),
		},
		Render: RenderConfig{
			CacheTTL: getEnvDuration("RENDER_CACHE_TTL", 10*time.Minute),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: getEnvBool("ENABLE_PPROF", true),
			PprofPort:   getEnvInt("PPROF_PORT", 6060),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}

	switch c.Identity.Mode {
	case "header":
	case "static":
		if c.Identity.StaticTeamID == "" {
			return fmt.Errorf("IDENTITY_STATIC_TEAM_ID is required in static identity mode")
		}
	default:
		return fmt.Errorf("unknown identity mode: %s", c.Identity.Mode)
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns the host:port address of the cache redis
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Cache.RedisHost, c.Cache.RedisPort)
}

// Helper functions

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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
