package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"crimedash/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// categoryColumns maps canonical category names to SQL column names.
var categoryColumns = func() []string {
	cols := make([]string, 0, core.NumCategories)
	for _, c := range core.Categories() {
		cols = append(cols, strings.ToLower(c))
	}
	return cols
}()

var (
	recordColumns = "year, month, unit, " + strings.Join(categoryColumns, ", ") + ", total_cases"

	insertRecord = "INSERT INTO crime_records (" + recordColumns + ") VALUES (?, ?, ?" +
		strings.Repeat(", ?", core.NumCategories) + ", ?)"

	listRecords = "SELECT " + recordColumns + " FROM crime_records ORDER BY id"
)

const (
	deleteRecords = `DELETE FROM crime_records`
	countRecords  = `SELECT COUNT(*) FROM crime_records`
	insertImport  = `INSERT INTO dataset_imports (source, row_count) VALUES (?, ?)`
	lastImport    = `SELECT source, row_count, imported_at FROM dataset_imports ORDER BY id DESC LIMIT 1`
)

func (q *Queries) InsertRecord(ctx context.Context, r core.Record) error {
	args := make([]interface{}, 0, core.NumCategories+4)
	args = append(args, r.Year, int(r.Month), r.Unit)
	for _, c := range r.Counts {
		args = append(args, c)
	}
	args = append(args, r.Total)
	_, err := q.db.ExecContext(ctx, insertRecord, args...)
	return err
}

func (q *Queries) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := q.db.QueryContext(ctx, listRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []core.Record
	for rows.Next() {
		var (
			r     core.Record
			month int
		)
		dest := []interface{}{&r.Year, &month, &r.Unit}
		for i := range r.Counts {
			dest = append(dest, &r.Counts[i])
		}
		dest = append(dest, &r.Total)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.Month = time.Month(month)
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) DeleteRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteRecords)
	return err
}

func (q *Queries) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRecords).Scan(&n)
	return n, err
}

func (q *Queries) InsertImport(ctx context.Context, source string, rowCount int) error {
	_, err := q.db.ExecContext(ctx, insertImport, source, rowCount)
	return err
}

// Import describes one completed import run. ImportedAt is the SQLite
// timestamp text.
type Import struct {
	Source     string
	RowCount   int64
	ImportedAt string
}

func (q *Queries) LastImport(ctx context.Context) (Import, error) {
	var i Import
	err := q.db.QueryRowContext(ctx, lastImport).Scan(&i.Source, &i.RowCount, &i.ImportedAt)
	return i, err
}
