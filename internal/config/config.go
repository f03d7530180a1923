package config

import (
	"os"
	"strconv"

	"pdf-compare/internal/domain"
)

const (
	defaultMaxFileSize    int64 = 50 * 1024 * 1024
	defaultMemoryCeiling  int64 = 1024 * 1024 * 1024
	defaultMaxVisualBytes int64 = 20 * 1024 * 1024
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort       string
	MaxFileSize      int64
	LogLevel         string
	SupabaseURL      string
	SupabaseKey      string
	DatabaseURL      string
	DocumentsBucket  string
	ArtifactsBucket  string
	CompareDPI       int
	CompareThreshold float64
	CompareGridSize  int
	CompareWorkers   int
	MemoryCeiling    int64
	MaxVisualBytes   int64
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:       getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:      getEnvInt64OrDefault("MAX_FILE_SIZE", defaultMaxFileSize),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:      getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:      getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		DatabaseURL:      getEnvOrDefault("DATABASE_URL", ""),
		DocumentsBucket:  getEnvOrDefault("DOCUMENTS_BUCKET", "documents"),
		ArtifactsBucket:  getEnvOrDefault("ARTIFACTS_BUCKET", "comparisons"),
		CompareDPI:       getEnvIntOrDefault("COMPARE_DPI", 150),
		CompareThreshold: getEnvFloatOrDefault("COMPARE_THRESHOLD", 95),
		CompareGridSize:  getEnvIntOrDefault("COMPARE_GRID_SIZE", 40),
		CompareWorkers:   getEnvIntOrDefault("COMPARE_WORKERS", 2),
		MemoryCeiling:    getEnvInt64OrDefault("COMPARE_MEMORY_CEILING", defaultMemoryCeiling),
		MaxVisualBytes:   getEnvInt64OrDefault("COMPARE_MAX_VISUAL_BYTES", defaultMaxVisualBytes),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the largest document accepted for comparison
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetDatabaseURL returns the Postgres connection string used for reports
func (c *AppConfig) GetDatabaseURL() string {
	return c.DatabaseURL
}

func (c *AppConfig) GetDocumentsBucket() string {
	return c.DocumentsBucket
}

func (c *AppConfig) GetArtifactsBucket() string {
	return c.ArtifactsBucket
}

func (c *AppConfig) GetCompareDPI() int {
	return c.CompareDPI
}

func (c *AppConfig) GetCompareThreshold() float64 {
	return c.CompareThreshold
}

func (c *AppConfig) GetCompareGridSize() int {
	return c.CompareGridSize
}

func (c *AppConfig) GetCompareWorkers() int {
	return c.CompareWorkers
}

// GetMemoryCeiling returns the byte ceiling for resident page rasters
func (c *AppConfig) GetMemoryCeiling() int64 {
	return c.MemoryCeiling
}

// GetMaxVisualBytes returns the combined document size above which
// comparisons fall back to text mode
func (c *AppConfig) GetMaxVisualBytes() int64 {
	return c.MaxVisualBytes
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	return int(getEnvInt64OrDefault(key, int64(defaultValue)))
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
