package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/menuscore/menuscore/pkg/atomicfile"
	"github.com/menuscore/menuscore/pkg/logging"
)

// Table is an ordered CSV dataset with a header row. All cells are strings.
type Table struct {
	path string
	df   dataframe.DataFrame
}

// ColumnProfile summarises one column for human-readable reports.
type ColumnProfile struct {
	Name string
	// Type is the inferred cell type: int, float, bool or string.
	Type string
	// Samples holds up to the requested number of distinct non-missing values
	// in order of first appearance.
	Samples []string
}

// ReadFile loads the CSV file at path. A missing file yields an error
// wrapping ErrNotFound.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dataset: %w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("dataset: open %q: %w", path, err)
	}
	defer logging.SafeCloseWithLogging(f, slog.Default(), "read "+path)

	t, err := Read(f)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) && schemaErr.Path == "" {
			schemaErr.Path = path
		}
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}
	t.path = path
	return t, nil
}

// Read parses CSV from r. Every column is loaded as a string column and no
// value is treated as NaN, so cells round-trip unchanged. A header without
// data rows yields an empty table with those columns. Duplicate header names
// are a *SchemaError.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	header, empty, err := scanHeader(data)
	if err != nil {
		return nil, err
	}
	if empty {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		if df.Err != nil {
			return nil, df.Err
		}
		return &Table{df: df}, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// scanHeader returns the header row of data and whether no data row follows
// it.
func scanHeader(data []byte) (header []string, empty bool, err error) {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err = cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, false, errors.New("missing header row")
		}
		return nil, false, err
	}

	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return nil, false, &SchemaError{Column: name, Reason: "duplicate column name"}
		}
		seen[name] = struct{}{}
	}

	_, err = cr.Read()
	return header, errors.Is(err, io.EOF), nil
}

// Path returns the file the table was read from, or "" for in-memory tables.
func (t *Table) Path() string { return t.path }

// Columns returns the column names in file order.
func (t *Table) Columns() []string { return t.df.Names() }

// Len returns the number of data rows.
func (t *Table) Len() int { return t.df.Nrow() }

// Has reports whether the table has a column named name.
func (t *Table) Has(name string) bool {
	for _, c := range t.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the cells of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	if !t.Has(name) {
		return nil, &SchemaError{Path: t.path, Column: name, Reason: "column not present"}
	}
	return t.df.Col(name).Records(), nil
}

// Require returns a *SchemaError for the first name that is not a column.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return &SchemaError{Path: t.path, Column: n, Reason: "column not present"}
		}
	}
	return nil
}

// Drop returns a new table without the named columns. Every name must exist.
func (t *Table) Drop(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return &Table{path: t.path, df: t.df.Copy()}, nil
	}
	df := t.df.Drop(names)
	if df.Err != nil {
		return nil, fmt.Errorf("dataset: drop columns: %w", df.Err)
	}
	return &Table{path: t.path, df: df}, nil
}

// WithColumn returns a new table with values as the named column. An existing
// column of that name is replaced in place; otherwise it is appended last.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != t.Len() {
		return nil, fmt.Errorf("dataset: column %q has %d values, table has %d rows", name, len(values), t.Len())
	}
	df := t.df.Mutate(series.New(values, series.String, name))
	if df.Err != nil {
		return nil, fmt.Errorf("dataset: set column %q: %w", name, df.Err)
	}
	return &Table{path: t.path, df: df}, nil
}

// Profile infers a type for each column and collects up to samples distinct
// non-missing values.
func (t *Table) Profile(samples int) []ColumnProfile {
	names := t.df.Names()
	typed := dataframe.LoadRecords(t.df.Records(), dataframe.HasHeader(true), dataframe.DetectTypes(true))

	out := make([]ColumnProfile, 0, len(names))
	for i, name := range names {
		p := ColumnProfile{Name: name, Type: string(series.String)}
		if typed.Err == nil && i < typed.Ncol() {
			p.Type = string(typed.Types()[i])
		}

		seen := make(map[string]struct{})
		for _, v := range t.df.Col(name).Records() {
			if len(p.Samples) >= samples {
				break
			}
			if IsMissing(v) {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			p.Samples = append(p.Samples, v)
		}
		out = append(out, p)
	}
	return out
}

// Encode writes the table as CSV, header first.
func (t *Table) Encode(w io.Writer) error {
	if err := t.df.WriteCSV(w); err != nil {
		return fmt.Errorf("dataset: encode csv: %w", err)
	}
	return nil
}

// WriteFile writes the table to path atomically.
func (t *Table) WriteFile(path string) error {
	if err := atomicfile.Write(path, 0o644, t.Encode); err != nil {
		return fmt.Errorf("dataset: write %q: %w", path, err)
	}
	return nil
}
