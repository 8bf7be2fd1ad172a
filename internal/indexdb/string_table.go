package indexdb

import (
	errs "github.com/standardbeagle/xref/internal/errors"
)

// ID is a dense, 0-based identifier for an interned string. IDs are local to
// one StringTable in one Index; they carry no meaning across indexes.
type ID = uint32

// StringTable is a bijective mapping from distinct strings to dense IDs
// assigned in first-insertion order. A reverse lookup map makes Insert
// amortized constant time.
//
// StringTable is not safe for concurrent mutation; each Index has exactly one
// producer at a time (see package doc).
type StringTable struct {
	name    string
	owner   *Index
	strings []string
	lookup  map[string]ID
}

func newStringTable(name string, owner *Index) *StringTable {
	return &StringTable{
		name:   name,
		owner:  owner,
		lookup: make(map[string]ID),
	}
}

// Name returns the table's registered name.
func (st *StringTable) Name() string {
	return st.name
}

// Len returns the number of distinct strings interned so far.
func (st *StringTable) Len() int {
	return len(st.strings)
}

// Insert interns s and returns its ID. Inserting a string that is already
// present returns the existing ID; otherwise the next dense ID is assigned.
// Fails with a StateError once the owning index is read-only.
func (st *StringTable) Insert(s string) (ID, error) {
	if st.owner.readOnly {
		return 0, errs.NewStateError("insert", st.owner.name)
	}
	if id, ok := st.lookup[s]; ok {
		return id, nil
	}
	id := ID(len(st.strings))
	st.strings = append(st.strings, s)
	st.lookup[s] = id
	return id, nil
}

// Lookup returns the ID for s without inserting.
func (st *StringTable) Lookup(s string) (ID, bool) {
	id, ok := st.lookup[s]
	return id, ok
}

// String returns the string for id, or false if id is out of range.
func (st *StringTable) String(id ID) (string, bool) {
	if int(id) >= len(st.strings) {
		return "", false
	}
	return st.strings[id], true
}

// Strings returns the interned strings in ID order. The returned slice is the
// table's backing store and must not be modified.
func (st *StringTable) Strings() []string {
	return st.strings
}
