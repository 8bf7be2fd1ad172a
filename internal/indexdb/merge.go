package indexdb

import (
	"fmt"

	"github.com/standardbeagle/xref/internal/debug"
	errs "github.com/standardbeagle/xref/internal/errors"
)

// Merge folds src's contents into ix, remapping interned IDs into ix's ID
// space. Strings already present in ix are deduplicated by Insert; rows are
// appended with every foreign-key column rewritten through the per-table
// translation map and raw columns passed through unchanged.
//
// Both indexes must carry structurally identical schemas; anything else is a
// SchemaError. Only one merge into a given destination may be in progress at
// a time - the caller owns that discipline, not this method.
func (ix *Index) Merge(src *Index) error {
	if ix.readOnly {
		return errs.NewStateError("merge", ix.name)
	}
	if err := ix.checkSchemaCompatible(src); err != nil {
		return err
	}

	// Pass 1: intern every source string, recording sourceID -> destID per
	// string table.
	idMaps := make(map[string][]ID, len(ix.stringNames))
	for _, name := range ix.stringNames {
		srcTable := src.stringTables[name]
		dstTable := ix.stringTables[name]
		idMap := make([]ID, srcTable.Len())
		for srcID, s := range srcTable.Strings() {
			dstID, err := dstTable.Insert(s)
			if err != nil {
				return err
			}
			idMap[srcID] = dstID
		}
		idMaps[name] = idMap
	}

	// Pass 2: append translated rows in original order.
	row := Row{}
	for _, name := range ix.tableNames {
		srcTable := src.tables[name]
		dstTable := ix.tables[name]
		columns := dstTable.Columns()
		for i := 0; i < srcTable.Len(); i++ {
			srcRow := srcTable.Row(i)
			row = row[:0]
			for c, col := range columns {
				if col == RawColumn {
					row = append(row, srcRow[c])
					continue
				}
				row = append(row, idMaps[col][srcRow[c]])
			}
			if err := dstTable.Add(row); err != nil {
				return err
			}
		}
		debug.LogMerge("merged %d rows into %s\n", srcTable.Len(), name)
	}
	return nil
}

// checkSchemaCompatible verifies that src carries the same string tables and
// the same row tables with identical column schemas, in the same
// registration order.
func (ix *Index) checkSchemaCompatible(src *Index) error {
	if len(ix.stringNames) != len(src.stringNames) {
		return errs.NewSchemaError("merge", "",
			fmt.Sprintf("string table count mismatch: %d vs %d", len(ix.stringNames), len(src.stringNames)))
	}
	for i, name := range ix.stringNames {
		if src.stringNames[i] != name {
			return errs.NewSchemaError("merge", name,
				"string table missing or registered in a different order in source")
		}
	}
	if len(ix.tableNames) != len(src.tableNames) {
		return errs.NewSchemaError("merge", "",
			fmt.Sprintf("table count mismatch: %d vs %d", len(ix.tableNames), len(src.tableNames)))
	}
	for i, name := range ix.tableNames {
		if src.tableNames[i] != name {
			return errs.NewSchemaError("merge", name,
				"table missing or registered in a different order in source")
		}
		dstCols := ix.tables[name].Columns()
		srcCols := src.tables[name].Columns()
		if len(dstCols) != len(srcCols) {
			return errs.NewSchemaError("merge", name,
				fmt.Sprintf("column count mismatch: %d vs %d", len(dstCols), len(srcCols)))
		}
		for c := range dstCols {
			if dstCols[c] != srcCols[c] {
				return errs.NewSchemaError("merge", name,
					fmt.Sprintf("column %d targets %q in destination but %q in source", c, dstCols[c], srcCols[c]))
			}
		}
	}
	return nil
}
