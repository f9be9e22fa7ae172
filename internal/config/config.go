package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	RateLimitPerMin int

	// Dataset
	DatasetSource string
	DatasetPath   string
	TotalsPolicy  string

	// S3 / MinIO
	S3Bucket    string
	S3Key       string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// Database
	SQLiteDBPath string

	// Logging
	LogFormat string
	LogLevel  string

	// Dashboard defaults YAML; empty means built-in defaults.
	DashboardDefaultsFile string
}

var (
	validSources  = []string{"file", "s3", "sheets", "sqlite"}
	validPolicies = []string{"trust", "strict", "recompute"}
	validFormats  = []string{"text", "json"}
	validLevels   = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8050"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		DatasetSource: strings.ToLower(getEnv("DATASET_SOURCE", "file")),
		DatasetPath:   getEnv("DATASET_PATH", "bangladesh_police_crime_data_2021_2025.csv"),
		TotalsPolicy:  strings.ToLower(getEnv("TOTALS_POLICY", "trust")),

		S3Bucket:    getEnv("DATASET_S3_BUCKET", ""),
		S3Key:       getEnv("DATASET_S3_KEY", ""),
		S3Region:    getEnv("DATASET_S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("DATASET_S3_ENDPOINT", ""),
		S3PathStyle: getEnvBool("DATASET_S3_PATH_STYLE", false),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:    getEnv("GOOGLE_SHEET_RANGE", "Data!A1:V"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/crimedash.db"),

		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),

		DashboardDefaultsFile: getEnv("DASHBOARD_DEFAULTS_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if c.RateLimitPerMin < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMin))
	}

	if !slices.Contains(validSources, c.DatasetSource) {
		errors = append(errors, fmt.Sprintf("invalid dataset source '%s': must be one of %v", c.DatasetSource, validSources))
	}
	if !slices.Contains(validPolicies, c.TotalsPolicy) {
		errors = append(errors, fmt.Sprintf("invalid totals policy '%s': must be one of %v", c.TotalsPolicy, validPolicies))
	}

	switch c.DatasetSource {
	case "file":
		if c.DatasetPath == "" {
			errors = append(errors, "dataset path cannot be empty when using file source")
		}
	case "s3":
		if c.S3Bucket == "" {
			errors = append(errors, "S3 bucket is required when using s3 source")
		}
		if c.S3Key == "" {
			errors = append(errors, "S3 object key is required when using s3 source")
		}
		if c.S3Endpoint != "" {
			if u, err := url.Parse(c.S3Endpoint); err != nil {
				errors = append(errors, fmt.Sprintf("invalid S3 endpoint '%s': %v", c.S3Endpoint, err))
			} else if u.Scheme != "http" && u.Scheme != "https" {
				errors = append(errors, fmt.Sprintf("invalid S3 endpoint scheme '%s': must be 'http' or 'https'", u.Scheme))
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleSheetRange == "" {
			errors = append(errors, "Google Sheet range is required when using sheets source")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite source")
		} else if _, err := os.Stat(c.SQLiteDBPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("SQLite database does not exist: %s (run 'crimedash import' first)", c.SQLiteDBPath))
		}
	}

	if !slices.Contains(validFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}
	if !slices.Contains(validLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if c.DashboardDefaultsFile != "" {
		if _, err := os.Stat(c.DashboardDefaultsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("dashboard defaults file does not exist: %s", c.DashboardDefaultsFile))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// EnsureDBDir creates the directory holding the SQLite database.
func (c *Config) EnsureDBDir() error {
	dir := filepath.Dir(c.SQLiteDBPath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create SQLite database directory '%s': %w", dir, err)
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
