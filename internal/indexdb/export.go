package indexdb

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	errs "github.com/standardbeagle/xref/internal/errors"
)

// ResolveRow resolves one row of the named table back to strings: foreign-key
// columns are joined against their string table, raw columns are formatted as
// decimal integers.
func (ix *Index) ResolveRow(tableName string, i int) ([]string, error) {
	t := ix.tables[tableName]
	if t == nil {
		return nil, errs.NewSchemaError("resolve", tableName, "no such table")
	}
	row := t.Row(i)
	out := make([]string, len(row))
	for c, col := range t.Columns() {
		if col == RawColumn {
			out[c] = strconv.FormatUint(uint64(row[c]), 10)
			continue
		}
		s, ok := ix.stringTables[col].String(row[c])
		if !ok {
			return nil, errs.NewSchemaError("resolve", tableName,
				fmt.Sprintf("row %d column %d holds ID %d outside string table %q", i, c, row[c], col))
		}
		out[c] = s
	}
	return out, nil
}

// ResolvedRows resolves every row of the named table. Row order is the
// table's append order; callers comparing logical content across indexes
// must treat the result as a multiset.
func (ix *Index) ResolvedRows(tableName string) ([][]string, error) {
	t := ix.tables[tableName]
	if t == nil {
		return nil, errs.NewSchemaError("resolve", tableName, "no such table")
	}
	rows := make([][]string, t.Len())
	for i := range rows {
		row, err := ix.ResolveRow(tableName, i)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// FactSet returns the logical content of the named table as a multiset of
// tab-joined resolved tuples. Two indexes hold the same facts exactly when
// their fact sets are equal, regardless of how raw IDs were assigned.
func (ix *Index) FactSet(tableName string) (map[string]int, error) {
	rows, err := ix.ResolvedRows(tableName)
	if err != nil {
		return nil, err
	}
	facts := make(map[string]int, len(rows))
	for _, row := range rows {
		facts[strings.Join(row, "\t")]++
	}
	return facts, nil
}

// ExportTable writes the named table to w as tab-separated resolved tuples,
// one row per line. This is the human-readable debug view of the otherwise
// numeric store.
func (ix *Index) ExportTable(tableName string, w io.Writer) error {
	t := ix.tables[tableName]
	if t == nil {
		return errs.NewSchemaError("export", tableName, "no such table")
	}
	for i := 0; i < t.Len(); i++ {
		row, err := ix.ResolveRow(tableName, i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}
