// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIURL               string
	Region               string
	Horizon              int
	Capacity             float64
	MAPE                 float64
	Regions              []string
	ModelMetricsPath     string
	RefreshInterval      time.Duration
	RequestTimeout       time.Duration
	MaxConcurrentFetches int
	LogLevel             string
	LogFile              string
	MetricsAddr          string
	Notifications        bool
}

// Default values
const (
	defaultAPIURL               = "http://localhost:5000"
	defaultRegion               = "East"
	defaultHorizon              = 7
	defaultCapacity             = 10000
	defaultMAPE                 = 8.5
	defaultRefreshInterval      = 60 * time.Second
	defaultRequestTimeout       = 15 * time.Second
	defaultMaxConcurrentFetches = 4
	defaultLogLevel             = "info"
)

// DefaultRegions is the multi-region comparison set used when FORECAST_REGIONS is unset.
var DefaultRegions = []string{"East US", "West US", "North Europe", "Southeast Asia"}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIURL:               strings.TrimRight(getEnvString("FORECAST_API_URL", defaultAPIURL), "/"),
		Region:               getEnvString("FORECAST_REGION", defaultRegion),
		Horizon:              getEnvInt("FORECAST_HORIZON", defaultHorizon),
		Capacity:             getEnvFloat("FORECAST_CAPACITY", defaultCapacity),
		MAPE:                 getEnvFloat("FORECAST_MAPE", defaultMAPE),
		Regions:              getEnvList("FORECAST_REGIONS", DefaultRegions),
		ModelMetricsPath:     getEnvString("MODEL_METRICS_PATH", getDefaultModelMetricsPath()),
		RefreshInterval:      getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		MaxConcurrentFetches: getEnvInt("MAX_CONCURRENT_FETCHES", defaultMaxConcurrentFetches),
		LogLevel:             getEnvString("LOG_LEVEL", defaultLogLevel),
		LogFile:              getEnvString("LOG_FILE", ""),
		MetricsAddr:          getEnvString("METRICS_ADDR", ""),
		Notifications:        getEnvBool("DESKTOP_NOTIFICATIONS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make every request fail.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FORECAST_API_URL %q is not an absolute URL", c.APIURL)
	}
	if c.Horizon != 7 && c.Horizon != 30 {
		return fmt.Errorf("FORECAST_HORIZON must be 7 or 30, got %d", c.Horizon)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("FORECAST_CAPACITY must be positive, got %v", c.Capacity)
	}
	if c.MAPE < 0 {
		return fmt.Errorf("FORECAST_MAPE must not be negative, got %v", c.MAPE)
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("FORECAST_REGIONS must name at least one region")
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1s, got %v", c.RefreshInterval)
	}
	if c.MaxConcurrentFetches < 1 {
		return fmt.Errorf("MAX_CONCURRENT_FETCHES must be at least 1, got %d", c.MaxConcurrentFetches)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "capdash", ".env"),
			filepath.Join(home, ".capdash", ".env"),
		)
	}

	// Parent directory (useful when running from cmd/)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultModelMetricsPath returns the default path for the model comparison file.
func getDefaultModelMetricsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "models.yaml"
	}
	return filepath.Join(home, ".config", "capdash", "models.yaml")
}

// DefaultLogPath is where the dashboard logs when LOG_FILE is unset, since
// stderr belongs to the terminal UI.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "capdash.log"
	}
	return filepath.Join(home, ".config", "capdash", "capdash.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated list, dropping blank entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
