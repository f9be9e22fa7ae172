package backend

import (
	"context"
	"fmt"
	"log/slog"

	"crimedash/internal/source/csvfile"
	gsheet "crimedash/internal/source/google"
	s3src "crimedash/internal/source/s3"
	"crimedash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileSource:
		f.logger.Info("Using file dataset source", "path", config.DatasetPath)
		return &SourceResult{Source: csvfile.New(config.DatasetPath)}, nil
	case S3Source:
		return f.createS3Source(ctx, config)
	case SheetsSource:
		return f.createSheetsSource(ctx, config)
	case SQLiteSource:
		return f.createSQLiteSource(config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) createS3Source(ctx context.Context, config Config) (*SourceResult, error) {
	src, err := s3src.New(ctx, s3src.Config{
		Bucket:    config.S3Bucket,
		Key:       config.S3Key,
		Region:    config.S3Region,
		Endpoint:  config.S3Endpoint,
		PathStyle: config.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 source: %w", err)
	}

	f.logger.Info("Using S3 dataset source",
		"bucket", config.S3Bucket,
		"key", config.S3Key,
		"endpoint", config.S3Endpoint)

	return &SourceResult{Source: src}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*SourceResult, error) {
	src, err := gsheet.Open(ctx, config.GoogleSpreadsheetID, config.GoogleSheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
	}

	f.logger.Info("Using Google Sheets dataset source", "range", config.GoogleSheetRange)

	return &SourceResult{Source: src}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*SourceResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Using SQLite dataset source", "db_path", config.SQLiteDBPath)

	return &SourceResult{Source: repo, Cleanup: repo.Close}, nil
}
