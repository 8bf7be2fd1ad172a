package indexdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

// Persisted format: a fixed header followed by a snappy-compressed payload.
//
//	magic   [5]byte "XRIDB"
//	version uint32
//	sum     uint64  xxhash64 of the compressed payload
//	length  uint32  compressed payload length
//	payload snappy block
//
// The payload is self-describing: every string table with its name and
// ordered strings (IDs implicit by position), then every row table with its
// name, per-column string-table references, and flat rows. All integers are
// little-endian.
const (
	formatMagic   = "XRIDB"
	formatVersion = 1
)

// Save serializes the index to path. The file is written to a temporary
// sibling and renamed into place, so a failed save never leaves partial or
// corrupt output at path.
func (ix *Index) Save(path string) error {
	payload := ix.encodePayload()
	compressed := snappy.Encode(nil, payload)

	var buf bytes.Buffer
	buf.WriteString(formatMagic)
	writeU32(&buf, formatVersion)
	writeU64(&buf, xxhash.Sum64(compressed))
	writeU32(&buf, uint32(len(compressed)))
	buf.Write(compressed)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write index to %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close index file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move index into place at %s: %w", path, err)
	}
	return nil
}

// Load reads an index saved by Save. The loaded index is read-only: an index
// is only ever persisted after finalization.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file %s: %w", path, err)
	}

	r := bytes.NewReader(data)
	magic := make([]byte, len(formatMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != formatMagic {
		return nil, fmt.Errorf("%s is not an index file (bad magic)", path)
	}
	version, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("truncated index header in %s: %w", path, err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported index format version %d in %s", version, path)
	}
	sum, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("truncated index header in %s: %w", path, err)
	}
	length, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("truncated index header in %s: %w", path, err)
	}
	compressed := make([]byte, length)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("truncated index payload in %s: %w", path, err)
	}
	if xxhash.Sum64(compressed) != sum {
		return nil, fmt.Errorf("index file %s is corrupt (checksum mismatch)", path)
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress index payload in %s: %w", path, err)
	}

	ix, err := decodePayload(filepath.Base(path), payload)
	if err != nil {
		return nil, fmt.Errorf("malformed index payload in %s: %w", path, err)
	}
	ix.SetReadOnly()
	return ix, nil
}

func (ix *Index) encodePayload() []byte {
	var buf bytes.Buffer
	writeU32(&buf, uint32(len(ix.stringNames)))
	for _, name := range ix.stringNames {
		st := ix.stringTables[name]
		writeString(&buf, name)
		writeU32(&buf, uint32(st.Len()))
		for _, s := range st.Strings() {
			writeString(&buf, s)
		}
	}
	writeU32(&buf, uint32(len(ix.tableNames)))
	for _, name := range ix.tableNames {
		t := ix.tables[name]
		writeString(&buf, name)
		writeU32(&buf, uint32(t.Width()))
		for _, col := range t.Columns() {
			writeString(&buf, col)
		}
		writeU32(&buf, uint32(t.Len()))
		for _, v := range t.data {
			writeU32(&buf, v)
		}
	}
	return buf.Bytes()
}

func decodePayload(name string, payload []byte) (*Index, error) {
	r := bytes.NewReader(payload)
	ix := New(name)

	numStringTables, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < numStringTables; i++ {
		tableName, err := readString(r)
		if err != nil {
			return nil, err
		}
		st, err := ix.AddStringTable(tableName)
		if err != nil {
			return nil, err
		}
		count, err := readU32(r)
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < count; j++ {
			s, err := readString(r)
			if err != nil {
				return nil, err
			}
			if _, err := st.Insert(s); err != nil {
				return nil, err
			}
		}
		if uint32(st.Len()) != count {
			return nil, fmt.Errorf("string table %q holds duplicate strings", tableName)
		}
	}

	numTables, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < numTables; i++ {
		tableName, err := readString(r)
		if err != nil {
			return nil, err
		}
		width, err := readU32(r)
		if err != nil {
			return nil, err
		}
		columns := make([]string, width)
		for c := range columns {
			if columns[c], err = readString(r); err != nil {
				return nil, err
			}
		}
		t, err := ix.AddTable(tableName, columns)
		if err != nil {
			return nil, err
		}
		numRows, err := readU32(r)
		if err != nil {
			return nil, err
		}
		t.data = make([]uint32, 0, numRows*width)
		for j := uint32(0); j < numRows*width; j++ {
			v, err := readU32(r)
			if err != nil {
				return nil, err
			}
			t.data = append(t.data, v)
		}
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after last table", r.Len())
	}
	return ix, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	if int(n) > r.Len() {
		return "", fmt.Errorf("string length %d exceeds remaining payload %d", n, r.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
