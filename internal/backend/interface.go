package backend

import (
	"context"

	"crimedash/internal/dataset"
)

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// SourceResult contains the source instance and optional cleanup function
type SourceResult struct {
	Source  dataset.Source
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *SourceResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates dataset sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation
type Config struct {
	Type SourceType

	// File
	DatasetPath string

	// S3 / MinIO
	S3Bucket    string
	S3Key       string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// SQLite
	SQLiteDBPath string
}

// SourceType represents where the crime table is read from
type SourceType string

const (
	FileSource   SourceType = "file"
	S3Source     SourceType = "s3"
	SheetsSource SourceType = "sheets"
	SQLiteSource SourceType = "sqlite"
)

// String implements fmt.Stringer
func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is valid
func (st SourceType) IsValid() bool {
	switch st {
	case FileSource, S3Source, SheetsSource, SQLiteSource:
		return true
	default:
		return false
	}
}
