package indexdb

import (
	"fmt"

	errs "github.com/standardbeagle/xref/internal/errors"
)

// RawColumn marks a table column as a plain integer (no string-table foreign
// key). Line and column numbers are stored this way.
const RawColumn = ""

// Row is one fixed-width record of unsigned integers. Foreign-key columns
// hold string-table IDs; raw columns hold the integer itself.
type Row []uint32

// Table is a named ordered sequence of fixed-width rows. Rows are stored in a
// single flat backing slice; Row(i) returns a view into it.
type Table struct {
	name    string
	owner   *Index
	columns []string // string-table name per column, or RawColumn
	data    []uint32
}

func newTable(name string, owner *Index, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		name:    name,
		owner:   owner,
		columns: cols,
	}
}

// Name returns the table's registered name.
func (t *Table) Name() string {
	return t.name
}

// Width returns the schema width (number of columns).
func (t *Table) Width() int {
	return len(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.data) / len(t.columns)
}

// Columns returns the per-column string-table names (RawColumn for plain
// integer columns). The returned slice must not be modified.
func (t *Table) Columns() []string {
	return t.columns
}

// Row returns the i'th row as a view into the table's backing store. The
// view is invalidated by the next Add.
func (t *Table) Row(i int) Row {
	w := len(t.columns)
	return Row(t.data[i*w : (i+1)*w])
}

// Add appends a row. The row's width must match the schema width; a mismatch
// is a SchemaError (a programming defect, not recoverable data).
func (t *Table) Add(row Row) error {
	if t.owner.readOnly {
		return errs.NewStateError("add", t.owner.name)
	}
	if len(row) != len(t.columns) {
		return errs.NewSchemaError("add", t.name,
			fmt.Sprintf("row width %d does not match schema width %d", len(row), len(t.columns)))
	}
	t.data = append(t.data, row...)
	return nil
}
