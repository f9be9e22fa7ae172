// Package csvfile reads the crime table from a CSV file on local disk.
package csvfile

import (
	"context"
	"fmt"
	"os"

	"crimedash/internal/dataset"
)

// Source reads a CSV file.
type Source struct {
	path string
}

var _ dataset.Source = (*Source)(nil)

// New returns a Source for path. The file is opened on Rows, not here.
func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string { return s.path }

// Rows opens and parses the file.
func (s *Source) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}
