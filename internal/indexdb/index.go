// Package indexdb implements the columnar, string-interned store behind the
// cross-reference index: named string tables mapping distinct strings to
// dense IDs, named row tables whose columns are either raw integers or
// foreign keys into a string table, and the merge that folds one store into
// another while remapping IDs.
//
// An Index has exactly one producer at a time: the extraction task that
// fills a per-file index, or the merge loop that fills the global one. That
// single-owner discipline is why no mutex appears here - an Index is never
// mutated from two goroutines concurrently.
package indexdb

import (
	errs "github.com/standardbeagle/xref/internal/errors"
)

// Index is a named collection of string tables and row tables sharing one
// schema. It is created mutable, populated by its single producer, and
// transitioned to read-only exactly once before persistence.
type Index struct {
	name         string
	readOnly     bool
	stringTables map[string]*StringTable
	stringNames  []string // registration order, preserved through save/load
	tables       map[string]*Table
	tableNames   []string
}

// New creates an empty mutable index. The name only appears in diagnostics.
func New(name string) *Index {
	return &Index{
		name:         name,
		stringTables: make(map[string]*StringTable),
		tables:       make(map[string]*Table),
	}
}

// Name returns the index's diagnostic name.
func (ix *Index) Name() string {
	return ix.name
}

// AddStringTable registers an empty string table. Registering a name twice is
// a SchemaError.
func (ix *Index) AddStringTable(name string) (*StringTable, error) {
	if ix.readOnly {
		return nil, errs.NewStateError("addStringTable", ix.name)
	}
	if _, ok := ix.stringTables[name]; ok {
		return nil, errs.NewSchemaError("addStringTable", name, "string table already registered")
	}
	st := newStringTable(name, ix)
	ix.stringTables[name] = st
	ix.stringNames = append(ix.stringNames, name)
	return st, nil
}

// AddTable registers an empty row table. Each column names the string table
// it keys into, or RawColumn for a plain integer. Foreign-key targets must
// already be registered.
func (ix *Index) AddTable(name string, columns []string) (*Table, error) {
	if ix.readOnly {
		return nil, errs.NewStateError("addTable", ix.name)
	}
	if _, ok := ix.tables[name]; ok {
		return nil, errs.NewSchemaError("addTable", name, "table already registered")
	}
	for _, col := range columns {
		if col == RawColumn {
			continue
		}
		if _, ok := ix.stringTables[col]; !ok {
			return nil, errs.NewSchemaError("addTable", name,
				"column references unregistered string table "+col)
		}
	}
	t := newTable(name, ix, columns)
	ix.tables[name] = t
	ix.tableNames = append(ix.tableNames, name)
	return t, nil
}

// StringTable returns the registered string table, or nil.
func (ix *Index) StringTable(name string) *StringTable {
	return ix.stringTables[name]
}

// Table returns the registered row table, or nil.
func (ix *Index) Table(name string) *Table {
	return ix.tables[name]
}

// StringTableNames returns string-table names in registration order.
func (ix *Index) StringTableNames() []string {
	return ix.stringNames
}

// TableNames returns row-table names in registration order.
func (ix *Index) TableNames() []string {
	return ix.tableNames
}

// SetReadOnly makes the index immutable. The transition is irreversible and
// idempotent: calling it on an already read-only index is a no-op.
func (ix *Index) SetReadOnly() {
	ix.readOnly = true
}

// ReadOnly reports whether the index has been finalized.
func (ix *Index) ReadOnly() bool {
	return ix.readOnly
}
