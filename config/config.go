// Package config provides centralized configuration management for the
// directory service and its operator CLI, with validation and typed defaults.
//
// Configuration Sources (12-factor app principles):
//  1. Default values (hardcoded)
//  2. .env file (local development via godotenv)
//  3. Environment variables (container runtime)
//
// Usage:
//
//	import "github.com/duynhne/directory-service/config"
//
//	func main() {
//	    cfg := config.Load()
//	    if err := cfg.Validate(); err != nil {
//	        log.Fatal(err)
//	    }
//	    // Use cfg.Service.Port, cfg.Database.Driver, cfg.Listing.StrictValidation, etc.
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by internal/core.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the service
type Config struct {
	Service         ServiceConfig   // Service-specific settings (port, name, version)
	Tracing         TracingConfig   // OpenTelemetry configuration
	Profiling       ProfilingConfig // Pyroscope continuous profiling
	Logging         LoggingConfig   // Structured logging (Zap)
	Metrics         MetricsConfig   // Prometheus metrics
	Database        DatabaseConfig  // Profile storage (MongoDB or PostgreSQL)
	Listing         ListingConfig   // Listing, validation and import policy
	ShutdownTimeout int             // Graceful shutdown timeout in seconds - from SHUTDOWN_TIMEOUT env (default: 10)
	// ReadinessDrainDelay: delay after failing readiness before shutting down the HTTP server.
	// From READINESS_DRAIN_DELAY env (default: 5s, max: 30s).
	ReadinessDrainDelay int
}

// ServiceConfig defines basic service configuration
type ServiceConfig struct {
	Name    string // Service name - from SERVICE_NAME env (default: "directory")
	Port    string // HTTP server port (default: "8080") - from PORT env
	Version string // Service version (optional) - from VERSION env
	Env     string // Environment (dev/staging/production) - from ENV env
}

// TracingConfig defines OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled            bool    // Enable tracing (default: false) - from TRACING_ENABLED env
	Endpoint           string  // OTel Collector endpoint - from OTEL_COLLECTOR_ENDPOINT env
	SampleRate         float64 // Trace sampling rate (0.0-1.0) - from OTEL_SAMPLE_RATE env
	ServiceName        string  // Service name for traces (defaults to ServiceConfig.Name)
	MaxExportBatchSize int     // Max spans per batch (default: 512)
}

// ProfilingConfig defines Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled     bool   // Enable profiling (default: false) - from PROFILING_ENABLED env
	Endpoint    string // Pyroscope endpoint - from PYROSCOPE_ENDPOINT env
	ServiceName string // Service name for profiling (defaults to ServiceConfig.Name)
}

// LoggingConfig defines structured logging configuration
type LoggingConfig struct {
	Level  string // Log level: debug, info, warn, error (default: "info") - from LOG_LEVEL env
	Format string // Log format: json, console (default: "json") - from LOG_FORMAT env
}

// MetricsConfig defines Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool   // Enable metrics (default: true) - from METRICS_ENABLED env
	Path    string // Metrics endpoint path (default: "/metrics") - from METRICS_PATH env
}

// DatabaseConfig selects and configures the profile store.
type DatabaseConfig struct {
	Driver         string        // "mongo" or "postgres" - from DB_DRIVER env (default: "mongo")
	MongoURI       string        // MongoDB connection string - from MONGODB_URI env
	MongoDatabase  string        // MongoDB database name - from MONGODB_DATABASE env (default: "directory")
	Host           string        // PostgreSQL host - from DB_HOST env
	Port           string        // PostgreSQL port - from DB_PORT env (default: "5432")
	Name           string        // PostgreSQL database name - from DB_NAME env
	User           string        // PostgreSQL user - from DB_USER env
	Password       string        // PostgreSQL password - from DB_PASSWORD env
	SSLMode        string        // SSL mode - from DB_SSLMODE env (default: "disable")
	MaxConnections int           // Max pool connections - from DB_POOL_MAX_CONNECTIONS env (default: 25)
	ConnectTimeout time.Duration // Connect + ping budget - from DB_CONNECT_TIMEOUT env (default: 10s)
}

// ListingConfig holds the listing and ingestion policy.
type ListingConfig struct {
	// StrictValidation also requires email, gender, address, village, city,
	// state and experience. From STRICT_VALIDATION env (default: false).
	StrictValidation bool
	// UniqueEmailIndex enforces email uniqueness in storage on top of the
	// application check. From UNIQUE_EMAIL_INDEX env (default: true).
	UniqueEmailIndex bool
	AdminPageSize    int    // Default admin page size - from ADMIN_PAGE_SIZE env (default: 100)
	PublicPageSize   int    // Fixed public page size - from PUBLIC_PAGE_SIZE env (default: 12)
	MaxPageSize      int    // Upper bound for requested page sizes - from MAX_PAGE_SIZE env (default: 500)
	AvatarBaseURL    string // Generated avatar service - from AVATAR_BASE_URL env
	MaxUploadBytes   int64  // Bulk upload size limit - from MAX_UPLOAD_BYTES env (default: 10 MiB)
}

// BuildDSN constructs PostgreSQL connection string from config
func (c *DatabaseConfig) BuildDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConnections)
}

// Load reads configuration from environment variables with defaults
// It automatically loads .env file if present (for local development)
//
// Priority: .env file < environment variables
func Load() *Config {
	// godotenv.Load() fails silently if .env doesn't exist
	_ = godotenv.Load()

	serviceName := getEnv("SERVICE_NAME", "directory")

	return &Config{
		Service: ServiceConfig{
			Name:    serviceName,
			Port:    getEnv("PORT", "8080"),
			Version: getEnv("VERSION", "dev"),
			Env:     getEnv("ENV", "development"),
		},
		Tracing: TracingConfig{
			Enabled:            getEnvBool("TRACING_ENABLED", false),
			Endpoint:           getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4318"),
			SampleRate:         getEnvFloat("OTEL_SAMPLE_RATE", 0.1),
			ServiceName:        serviceName,
			MaxExportBatchSize: getEnvInt("OTEL_BATCH_SIZE", 512),
		},
		Profiling: ProfilingConfig{
			Enabled:     getEnvBool("PROFILING_ENABLED", false),
			Endpoint:    getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
			ServiceName: serviceName,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
			MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:  getEnv("MONGODB_DATABASE", "directory"),
			Host:           getEnv("DB_HOST", ""),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_NAME", ""),
			User:           getEnv("DB_USER", ""),
			Password:       getEnv("DB_PASSWORD", ""),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvInt("DB_POOL_MAX_CONNECTIONS", 25),
			ConnectTimeout: time.Duration(getEnvDurationSecondsWithMax("DB_CONNECT_TIMEOUT", 10, 60)) * time.Second,
		},
		Listing: ListingConfig{
			StrictValidation: getEnvBool("STRICT_VALIDATION", false),
			UniqueEmailIndex: getEnvBool("UNIQUE_EMAIL_INDEX", true),
			AdminPageSize:    getEnvInt("ADMIN_PAGE_SIZE", 100),
			PublicPageSize:   getEnvInt("PUBLIC_PAGE_SIZE", 12),
			MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", 500),
			AvatarBaseURL:    getEnv("AVATAR_BASE_URL", "https://ui-avatars.com/api/"),
			MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		},
		ShutdownTimeout:     getEnvDurationSecondsWithMax("SHUTDOWN_TIMEOUT", 10, 60),
		ReadinessDrainDelay: getEnvDurationSecondsWithMax("READINESS_DRAIN_DELAY", 5, 30),
	}
}

// Validate performs validation of all configuration fields
// Returns every problem at once so operators can fix them in one pass
func (c *Config) Validate() error {
	var errors []string

	if c.Service.Name == "" {
		errors = append(errors, "SERVICE_NAME must not be empty")
	}
	if _, err := strconv.Atoi(c.Service.Port); err != nil {
		errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Service.Port))
	}
	validEnvs := []string{"development", "dev", "staging", "stage", "production", "prod", "test"}
	if !contains(validEnvs, c.Service.Env) {
		errors = append(errors, fmt.Sprintf("ENV must be one of %v, got: %s", validEnvs, c.Service.Env))
	}

	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			errors = append(errors, "OTEL_COLLECTOR_ENDPOINT is required when tracing is enabled")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
			errors = append(errors, fmt.Sprintf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got: %.2f", c.Tracing.SampleRate))
		}
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		errors = append(errors, "PYROSCOPE_ENDPOINT is required when profiling is enabled")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logging.Level) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of %v, got: %s", validLogLevels, c.Logging.Level))
	}
	validLogFormats := []string{"json", "console"}
	if !contains(validLogFormats, c.Logging.Format) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of %v, got: %s", validLogFormats, c.Logging.Format))
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" {
			errors = append(errors, "MONGODB_URI is required when DB_DRIVER=mongo")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			errors = append(errors, "DB_HOST is required when DB_DRIVER=postgres")
		}
		if c.Database.Name == "" {
			errors = append(errors, "DB_NAME is required when DB_DRIVER=postgres")
		}
		if c.Database.User == "" {
			errors = append(errors, "DB_USER is required when DB_DRIVER=postgres")
		}
		if _, err := strconv.Atoi(c.Database.Port); err != nil {
			errors = append(errors, fmt.Sprintf("DB_PORT must be a valid number, got: %s", c.Database.Port))
		}
	default:
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of [%s %s], got: %s", DriverMongo, DriverPostgres, c.Database.Driver))
	}

	if c.Listing.AdminPageSize <= 0 {
		errors = append(errors, fmt.Sprintf("ADMIN_PAGE_SIZE must be positive, got: %d", c.Listing.AdminPageSize))
	}
	if c.Listing.PublicPageSize <= 0 {
		errors = append(errors, fmt.Sprintf("PUBLIC_PAGE_SIZE must be positive, got: %d", c.Listing.PublicPageSize))
	}
	if c.Listing.MaxPageSize < c.Listing.AdminPageSize || c.Listing.MaxPageSize < c.Listing.PublicPageSize {
		errors = append(errors, fmt.Sprintf("MAX_PAGE_SIZE must not be below the default page sizes, got: %d", c.Listing.MaxPageSize))
	}
	if c.Listing.AvatarBaseURL == "" {
		errors = append(errors, "AVATAR_BASE_URL must not be empty")
	}
	if c.Listing.MaxUploadBytes <= 0 {
		errors = append(errors, fmt.Sprintf("MAX_UPLOAD_BYTES must be positive, got: %d", c.Listing.MaxUploadBytes))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Service.Env)
	return env == "development" || env == "dev"
}

// GetShutdownTimeoutDuration returns shutdown timeout as time.Duration
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// GetReadinessDrainDelayDuration returns readiness drain delay as time.Duration.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.ReadinessDrainDelay) * time.Second
}

// getEnv reads an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable with a default fallback
// Accepts: "true", "1", "yes" for true | anything else for false
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt reads an integer environment variable with a default fallback
// Returns default if parsing fails
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat reads a float64 environment variable with a default fallback
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvDurationSecondsWithMax reads a duration env var and returns seconds as int.
// Accepts Go duration format (e.g., "5s", "30s", "1m").
// Returns default on invalid values (silent fallback for startup safety).
func getEnvDurationSecondsWithMax(key string, defaultValueSeconds int, maxSeconds int) int {
	timeoutStr := os.Getenv(key)
	if timeoutStr == "" {
		return defaultValueSeconds
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return defaultValueSeconds
	}

	seconds := int(timeout.Seconds())
	if seconds <= 0 || seconds > maxSeconds {
		return defaultValueSeconds
	}

	return seconds
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
