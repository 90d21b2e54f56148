package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Simulator SimulatorConfig
	Benchmark BenchmarkConfig
	RateLimit RateLimitConfig
	Assets    AssetsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database connection pool configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// SimulatorConfig holds tracking simulator configuration.
type SimulatorConfig struct {
	Enabled            bool
	IntervalSeconds    int
	BatchSize          int
	AdvanceProbability float64
}

// BenchmarkConfig holds the client benchmark collector configuration.
type BenchmarkConfig struct {
	Capacity int
}

// RateLimitConfig holds per-client request rate limits. The benchmark
// collector gets its own, stricter limiter.
type RateLimitConfig struct {
	RequestsPerSecond          float64
	Burst                      int
	BenchmarkRequestsPerSecond float64
	BenchmarkBurst             int
}

// AssetsConfig holds product image serving configuration. When S3 is
// enabled, missing images are mirrored from the bucket into ImageDir at
// startup; otherwise only the local directory is served.
type AssetsConfig struct {
	ImageDir  string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Prefix  string
}

// Load loads configuration from the environment. A .env file in the working
// directory is read first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "webshop"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Simulator: SimulatorConfig{
			Enabled:            getEnvAsBool("SIMULATOR_ENABLED", true),
			IntervalSeconds:    getEnvAsInt("SIMULATOR_INTERVAL", 60),
			BatchSize:          getEnvAsInt("SIMULATOR_BATCH_SIZE", 3),
			AdvanceProbability: getEnvAsFloat("SIMULATOR_ADVANCE_PROBABILITY", 0.7),
		},
		Benchmark: BenchmarkConfig{
			Capacity: getEnvAsInt("BENCHMARK_CAPACITY", 1000),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:          getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:                      getEnvAsInt("RATE_LIMIT_BURST", 40),
			BenchmarkRequestsPerSecond: getEnvAsFloat("BENCHMARK_RATE_LIMIT_RPS", 5),
			BenchmarkBurst:             getEnvAsInt("BENCHMARK_RATE_LIMIT_BURST", 10),
		},
		Assets: AssetsConfig{
			ImageDir:  getEnv("IMAGE_DIR", "./public/images"),
			S3Enabled: getEnvAsBool("S3_ENABLED", false),
			S3Bucket:  getEnv("S3_BUCKET", ""),
			S3Region:  getEnv("S3_REGION", "us-east-1"),
			S3Prefix:  getEnv("S3_PREFIX", "images/products/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Simulator.IntervalSeconds < 1 {
		return fmt.Errorf("simulator interval must be at least 1 second")
	}

	if c.Simulator.BatchSize < 1 {
		return fmt.Errorf("simulator batch size must be at least 1")
	}

	if c.Simulator.AdvanceProbability < 0 || c.Simulator.AdvanceProbability > 1 {
		return fmt.Errorf("simulator advance probability must be between 0 and 1")
	}

	if c.Benchmark.Capacity < 1 {
		return fmt.Errorf("benchmark capacity must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Assets.S3Enabled {
		if c.Assets.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Assets.S3Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
