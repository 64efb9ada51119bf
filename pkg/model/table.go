package model

import (
	"database/sql"
	"fmt"
)

// Row is one catalog entry, values aligned with the owning table's columns.
// An invalid sql.NullString is a null value.
type Row []sql.NullString

// Clone returns a copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Text returns a non-null value
func Text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// Null returns a null value
func Null() sql.NullString {
	return sql.NullString{}
}

// Table is an ordered sequence of rows sharing one column schema.
// Stages never modify a Table in place; the helpers below all return a new one.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable builds a table, checking every row matches the column count
func NewTable(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	return &Table{columns: cols, index: index, rows: rows}, nil
}

// MustTable is NewTable for fixtures; it panics on a malformed table
func MustTable(columns []string, rows []Row) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows of the table. Callers must not modify them.
func (t *Table) Rows() []Row {
	return t.rows
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table carries the column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the value of a column in a row, null if the column is unknown
func (t *Table) Value(row Row, column string) sql.NullString {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return Null()
	}
	return row[i]
}

// Filter returns a table holding the rows for which keep returns true
func (t *Table) Filter(keep func(Row) bool) *Table {
	rows := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// Map returns a table with fn applied to a copy of every row
func (t *Table) Map(fn func(Row) Row) *Table {
	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = fn(row.Clone())
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// InsertColumn returns a table with a null column added right after another
func (t *Table) InsertColumn(name, after string) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("column %q already exists", name)
	}
	pos, ok := t.index[after]
	if !ok {
		return nil, fmt.Errorf("%w: column %q not found", ErrSchemaMismatch, after)
	}
	pos++

	columns := make([]string, 0, len(t.columns)+1)
	columns = append(columns, t.columns[:pos]...)
	columns = append(columns, name)
	columns = append(columns, t.columns[pos:]...)

	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		out := make(Row, 0, len(row)+1)
		out = append(out, row[:pos]...)
		out = append(out, Null())
		out = append(out, row[pos:]...)
		rows[i] = out
	}

	return NewTable(columns, rows)
}
