package indexing

import (
	"github.com/standardbeagle/xref/internal/indexdb"
)

// The cross-reference schema. Every index in the system - each per-file
// index and the global one - carries exactly these tables, so any two of
// them can merge.
const (
	// String tables
	StringTablePath = "path" // source file paths
	StringTableKind = "kind" // frontend node kind labels
	StringTableUSR  = "usr"  // canonical declaration identifiers

	// Row tables
	TableRef = "ref" // usr, path, line, column, kind - where a symbol is referenced
	TableLoc = "loc" // path, line, column, usr - which symbol occupies a position
)

// NewIndex creates an empty mutable index with the cross-reference schema
// pre-registered. The registration order is part of the schema: merge
// requires structural identity, which this constructor guarantees.
func NewIndex(name string) (*indexdb.Index, error) {
	ix := indexdb.New(name)
	for _, st := range []string{StringTablePath, StringTableKind, StringTableUSR} {
		if _, err := ix.AddStringTable(st); err != nil {
			return nil, err
		}
	}
	refColumns := []string{
		StringTableUSR,
		StringTablePath,
		indexdb.RawColumn, // line
		indexdb.RawColumn, // column
		StringTableKind,
	}
	if _, err := ix.AddTable(TableRef, refColumns); err != nil {
		return nil, err
	}
	locColumns := []string{
		StringTablePath,
		indexdb.RawColumn, // line
		indexdb.RawColumn, // column
		StringTableUSR,
	}
	if _, err := ix.AddTable(TableLoc, locColumns); err != nil {
		return nil, err
	}
	return ix, nil
}
