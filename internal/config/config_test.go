package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8050",
		ShutdownTimeout: 30 * time.Second,
		RateLimitPerMin: 60,
		DatasetSource:   "file",
		DatasetPath:     "crime.csv",
		TotalsPolicy:    "trust",
		LogFormat:       "text",
		LogLevel:        "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid file source config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid dataset source",
			mutate:      func(c *Config) { c.DatasetSource = "ftp" },
			wantErr:     true,
			errorString: "invalid dataset source 'ftp': must be one of [file s3 sheets sqlite]",
		},
		{
			name:        "invalid totals policy",
			mutate:      func(c *Config) { c.TotalsPolicy = "ignore" },
			wantErr:     true,
			errorString: "invalid totals policy 'ignore'",
		},
		{
			name:        "file source missing path",
			mutate:      func(c *Config) { c.DatasetPath = "" },
			wantErr:     true,
			errorString: "dataset path cannot be empty when using file source",
		},
		{
			name: "s3 source missing bucket and key",
			mutate: func(c *Config) {
				c.DatasetSource = "s3"
			},
			wantErr:     true,
			errorString: "S3 bucket is required when using s3 source",
		},
		{
			name: "s3 source with bad endpoint scheme",
			mutate: func(c *Config) {
				c.DatasetSource = "s3"
				c.S3Bucket = "crime"
				c.S3Key = "data.csv"
				c.S3Endpoint = "ftp://minio:9000"
			},
			wantErr:     true,
			errorString: "invalid S3 endpoint scheme 'ftp'",
		},
		{
			name: "valid s3 source",
			mutate: func(c *Config) {
				c.DatasetSource = "s3"
				c.S3Bucket = "crime"
				c.S3Key = "data.csv"
				c.S3Endpoint = "http://minio:9000"
			},
			wantErr: false,
		},
		{
			name:        "sheets source missing spreadsheet ID",
			mutate:      func(c *Config) { c.DatasetSource = "sheets"; c.GoogleSheetRange = "Data!A1:V" },
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required when using sheets source",
		},
		{
			name:        "sqlite source missing database path",
			mutate:      func(c *Config) { c.DatasetSource = "sqlite" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite source",
		},
		{
			name: "sqlite source with missing database file",
			mutate: func(c *Config) {
				c.DatasetSource = "sqlite"
				c.SQLiteDBPath = "/non/existent/crime.db"
			},
			wantErr:     true,
			errorString: "SQLite database does not exist",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errorString: "invalid log level 'trace'",
		},
		{
			name:        "invalid shutdown timeout",
			mutate:      func(c *Config) { c.ShutdownTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 100ms: must be at least 1 second",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMin = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "missing defaults file",
			mutate:      func(c *Config) { c.DashboardDefaultsFile = "/non/existent/defaults.yaml" },
			wantErr:     true,
			errorString: "dashboard defaults file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want error")
	}
	for _, want := range []string{"invalid port", "invalid log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tmpDir := t.TempDir()
	dbFile := filepath.Join(tmpDir, "crime.db")
	defaultsFile := filepath.Join(tmpDir, "defaults.yaml")
	for _, f := range []string{dbFile, defaultsFile} {
		if err := os.WriteFile(f, nil, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	cfg := validConfig()
	cfg.DatasetSource = "sqlite"
	cfg.SQLiteDBPath = dbFile
	cfg.DashboardDefaultsFile = defaultsFile
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() error = %v, want nil", err)
	}
}

func TestEnsureDBDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	cfg := Config{SQLiteDBPath: filepath.Join(dir, "crime.db")}
	if err := cfg.EnsureDBDir(); err != nil {
		t.Fatalf("EnsureDBDir() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATASET_SOURCE", "DATASET_PATH", "TOTALS_POLICY", "SQLITE_DB_PATH",
		"DATASET_S3_PATH_STYLE", "DATASET_S3_REGION", "LOG_FORMAT", "LOG_LEVEL",
		"SHUTDOWN_TIMEOUT", "RATE_LIMIT_PER_MINUTE", "GOOGLE_SHEET_RANGE",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8050" {
			t.Errorf("Load() Port = %v, want 8050", cfg.Port)
		}
		if cfg.DatasetSource != "file" {
			t.Errorf("Load() DatasetSource = %v, want file", cfg.DatasetSource)
		}
		if cfg.DatasetPath != "bangladesh_police_crime_data_2021_2025.csv" {
			t.Errorf("Load() DatasetPath = %v", cfg.DatasetPath)
		}
		if cfg.TotalsPolicy != "trust" {
			t.Errorf("Load() TotalsPolicy = %v, want trust", cfg.TotalsPolicy)
		}
		if cfg.SQLiteDBPath != "./data/crimedash.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/crimedash.db", cfg.SQLiteDBPath)
		}
		if cfg.S3Region != "us-east-1" {
			t.Errorf("Load() S3Region = %v, want us-east-1", cfg.S3Region)
		}
		if cfg.GoogleSheetRange != "Data!A1:V" {
			t.Errorf("Load() GoogleSheetRange = %v, want Data!A1:V", cfg.GoogleSheetRange)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if cfg.RateLimitPerMin != 60 {
			t.Errorf("Load() RateLimitPerMin = %v, want 60", cfg.RateLimitPerMin)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATASET_SOURCE", "S3")
		t.Setenv("TOTALS_POLICY", "Strict")
		t.Setenv("DATASET_S3_PATH_STYLE", "true")
		t.Setenv("LOG_FORMAT", "JSON")
		t.Setenv("SHUTDOWN_TIMEOUT", "5s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DatasetSource != "s3" {
			t.Errorf("Load() DatasetSource = %v, want s3", cfg.DatasetSource)
		}
		if cfg.TotalsPolicy != "strict" {
			t.Errorf("Load() TotalsPolicy = %v, want strict", cfg.TotalsPolicy)
		}
		if !cfg.S3PathStyle {
			t.Error("Load() S3PathStyle = false, want true")
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
		if cfg.ShutdownTimeout != 5*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PER_MINUTE", "invalid")
		t.Setenv("SHUTDOWN_TIMEOUT", "invalid")
		t.Setenv("DATASET_S3_PATH_STYLE", "maybe")

		cfg := Load()

		if cfg.RateLimitPerMin != 60 {
			t.Errorf("Load() RateLimitPerMin = %v, want 60 (default for invalid input)", cfg.RateLimitPerMin)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s (default for invalid input)", cfg.ShutdownTimeout)
		}
		if cfg.S3PathStyle {
			t.Error("Load() S3PathStyle = true, want false (default for invalid input)")
		}
	})
}
