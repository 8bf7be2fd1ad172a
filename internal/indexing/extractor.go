package indexing

import (
	"context"
	"log"

	"github.com/standardbeagle/xref/internal/debug"
	"github.com/standardbeagle/xref/internal/descriptor"
	"github.com/standardbeagle/xref/internal/frontend"
	"github.com/standardbeagle/xref/internal/indexdb"
)

// Extractor drives the frontend for one file at a time and turns its syntax
// tree into reference and location facts in a fresh per-file index.
type Extractor struct {
	parser frontend.Parser
}

// NewExtractor creates an extractor over the given frontend.
func NewExtractor(parser frontend.Parser) *Extractor {
	return &Extractor{parser: parser}
}

// ExtractFile parses one descriptor record and returns its per-file index,
// already read-only. A parse failure is not an error: it is logged and the
// returned index is simply empty of facts, so a single bad file never aborts
// the run. The returned error is defect-class only (schema or state misuse).
func (e *Extractor) ExtractFile(ctx context.Context, record descriptor.SourceFile) (*indexdb.Index, error) {
	ix, err := NewIndex(record.Path)
	if err != nil {
		return nil, err
	}

	unit, parseErr := e.parser.Parse(ctx, record.Path, record.CompilerArgs())
	if parseErr != nil {
		log.Printf("Warning: failed to parse %s: %v", record.Path, parseErr)
		ix.SetReadOnly()
		return ix, nil
	}

	if err := e.extractFacts(ix, unit); err != nil {
		return nil, err
	}
	ix.SetReadOnly()
	return ix, nil
}

// extractFacts walks the unit depth-first pre-order, visiting every node.
// Each node that resolves to a declaration - directly or through the
// declaration it references - yields one ref row and one loc row.
func (e *Extractor) extractFacts(ix *indexdb.Index, unit *frontend.TranslationUnit) error {
	usrs := ix.StringTable(StringTableUSR)
	paths := ix.StringTable(StringTablePath)
	kinds := ix.StringTable(StringTableKind)
	refs := ix.Table(TableRef)
	locs := ix.Table(TableLoc)

	var firstErr error
	facts := 0
	frontend.Walk(unit.Root, func(n frontend.Node) {
		if firstErr != nil {
			return
		}

		usr := n.ResolvedIdentifier()
		if ref := n.Referenced(); ref != nil {
			usr = ref.ResolvedIdentifier()
		}
		if usr == "" {
			return
		}

		loc := n.Location()
		usrID, err := usrs.Insert(usr)
		if err != nil {
			firstErr = err
			return
		}
		pathID, err := paths.Insert(loc.Path)
		if err != nil {
			firstErr = err
			return
		}
		kindID, err := kinds.Insert(n.Kind())
		if err != nil {
			firstErr = err
			return
		}

		if err := refs.Add(indexdb.Row{usrID, pathID, loc.Line, loc.Column, kindID}); err != nil {
			firstErr = err
			return
		}
		if err := locs.Add(indexdb.Row{pathID, loc.Line, loc.Column, usrID}); err != nil {
			firstErr = err
			return
		}
		facts++
	})
	if firstErr != nil {
		return firstErr
	}

	debug.LogPipeline("extracted %d facts from %s\n", facts, unit.Path)
	return nil
}
