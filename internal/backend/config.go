package backend

import (
	"fmt"

	"crimedash/internal/config"
)

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := SourceType(appConfig.DatasetSource)
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid source type in config: %s", appConfig.DatasetSource)
	}

	return Config{
		Type:        sourceType,
		DatasetPath: appConfig.DatasetPath,

		S3Bucket:    appConfig.S3Bucket,
		S3Key:       appConfig.S3Key,
		S3Region:    appConfig.S3Region,
		S3Endpoint:  appConfig.S3Endpoint,
		S3PathStyle: appConfig.S3PathStyle,

		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:    appConfig.GoogleSheetRange,

		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Validate validates the source configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid source type: %s", c.Type)
	}

	switch c.Type {
	case FileSource:
		if c.DatasetPath == "" {
			return fmt.Errorf("dataset path is required for file source")
		}
	case S3Source:
		if c.S3Bucket == "" || c.S3Key == "" {
			return fmt.Errorf("S3 bucket and key are required for s3 source")
		}
	case SheetsSource:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets source")
		}
	case SQLiteSource:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite source")
		}
	}

	return nil
}

// GetSourceTypes returns all valid source types
func GetSourceTypes() []SourceType {
	return []SourceType{FileSource, S3Source, SheetsSource, SQLiteSource}
}

// GetSourceTypeStrings returns all valid source type strings
func GetSourceTypeStrings() []string {
	types := GetSourceTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
