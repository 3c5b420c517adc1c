package dataset

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped with the path) when an input file does not exist.
var ErrNotFound = errors.New("input file not found")

// SchemaError reports a mismatch between a file and the expected schema.
type SchemaError struct {
	// Path is the file the table was read from, if any.
	Path string
	// Column is the offending column name.
	Column string
	// Row is the 1-based data row for cell errors, 0 for header errors.
	Row int
	// Reason describes the mismatch.
	Reason string
}

func (e *SchemaError) Error() string {
	where := e.Path
	if where == "" {
		where = "<table>"
	}
	if e.Row > 0 {
		return fmt.Sprintf("schema mismatch in %s: column %q row %d: %s", where, e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("schema mismatch in %s: column %q: %s", where, e.Column, e.Reason)
}
