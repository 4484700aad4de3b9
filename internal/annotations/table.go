package annotations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is an ordered annotation table with named columns.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string

	// numeric records which columns were numeric when the table was read.
	// Derived tables keep it so pruning never changes how a field is quoted.
	numeric []bool
}

// Load reads a comma-separated table with a header row.
func Load(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open annotations: %w", err)
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Path = path
			return Table{}, schemaErr
		}
		return Table{}, fmt.Errorf("read annotations %s: %w", path, err)
	}
	table.Path = path
	return table, nil
}

// Read parses a table from r.
func Read(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0
	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
			return Table{}, &SchemaError{Reason: fmt.Sprintf("row %d has %v", parseErr.Line, parseErr.Err)}
		}
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, &SchemaError{Reason: "missing header row"}
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	table := Table{Header: header, Rows: records[1:]}
	table.numeric = table.numericColumns()
	return table, nil
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named column.
func (t Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Require verifies the named columns exist.
func (t Table) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := t.Column(c); !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Path: t.Path, Missing: missing}
	}
	return nil
}

// Values returns the column's values in row order.
func (t Table) Values(column string) ([]string, error) {
	idx, ok := t.Column(column)
	if !ok {
		return nil, &SchemaError{Path: t.Path, Missing: []string{column}}
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Without returns a copy of the table with the rows at the given indices
// removed. Out-of-range and repeated indices are ignored.
func (t Table) Without(indices []int) Table {
	drop := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(t.Rows) {
			drop[idx] = struct{}{}
		}
	}
	rows := make([][]string, 0, len(t.Rows)-len(drop))
	for i, row := range t.Rows {
		if _, ok := drop[i]; ok {
			continue
		}
		rows = append(rows, row)
	}
	return Table{Path: t.Path, Header: t.Header, Rows: rows, numeric: t.numeric}
}

// Subset returns the rows at the given indices in the given order.
func (t Table) Subset(indices []int) (Table, error) {
	rows := make([][]string, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(t.Rows) {
			return Table{}, fmt.Errorf("row index %d out of range [0,%d)", idx, len(t.Rows))
		}
		rows = append(rows, t.Rows[idx])
	}
	return Table{Path: t.Path, Header: t.Header, Rows: rows, numeric: t.numeric}, nil
}

// Save writes the table to path atomically.
func (t Table) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp annotations: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if err := t.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write annotations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close annotations: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod annotations: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace annotations: %w", err)
	}
	return nil
}

// DerivedPath returns the sibling path with suffix inserted before the
// extension, e.g. train.csv -> train_cleaned.csv.
func DerivedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
