package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySource   = errors.New("source has no rows")
	ErrMissingColumn = errors.New("missing required column")
	ErrTotalMismatch = errors.New("Total_Cases does not equal category sum")
)

// LoadError reports why a dataset could not be loaded. Row is 1-based with
// the header on row 1; it is 0 when the failure is not tied to a row.
type LoadError struct {
	Source string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("load %s: row %d, column %s: %v", e.Source, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("load %s: row %d: %v", e.Source, e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %s: %v", e.Source, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }
