package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"crimedash/internal/core"
	"crimedash/internal/dataset"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores an imported copy of the crime table and serves it
// back as a dataset source.
type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
}

var _ dataset.Source = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ImportRecords replaces the stored table with records in one transaction
// and records the import run.
func (r *SQLiteRepository) ImportRecords(ctx context.Context, source string, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteRecords(ctx); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	for i, rec := range records {
		if err := q.InsertRecord(ctx, rec); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if err := q.InsertImport(ctx, source, len(records)); err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Dataset imported to SQLite",
		"source", source,
		"rows", len(records),
		"db_path", r.path)
	return nil
}

// Records returns every stored record in insertion order.
func (r *SQLiteRepository) Records(ctx context.Context) ([]core.Record, error) {
	recs, err := r.queries.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// LastImport reports the most recent import run; ok is false when the
// database has never been imported into.
func (r *SQLiteRepository) LastImport(ctx context.Context) (Import, bool, error) {
	imp, err := r.queries.LastImport(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, false, nil
	}
	if err != nil {
		return Import{}, false, fmt.Errorf("last import: %w", err)
	}
	return imp, true, nil
}

func (r *SQLiteRepository) Name() string { return "sqlite:" + r.path }

// Rows renders the stored table in source layout so it goes through the
// same loader as file-based sources.
func (r *SQLiteRepository) Rows(ctx context.Context) ([][]string, error) {
	recs, err := r.Records(ctx)
	if err != nil {
		return nil, err
	}
	header := []string{core.ColumnYear, core.ColumnMonth, core.ColumnUnit}
	header = append(header, core.Categories()...)
	header = append(header, core.ColumnTotal)

	out := make([][]string, 0, len(recs)+1)
	out = append(out, header)
	for _, rec := range recs {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(rec.Year), rec.Month.String(), rec.Unit)
		for _, c := range rec.Counts {
			row = append(row, strconv.FormatInt(c, 10))
		}
		row = append(row, strconv.FormatInt(rec.Total, 10))
		out = append(out, row)
	}
	return out, nil
}
