package indexing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/xref/internal/frontend"
)

// fakeNode is a synthetic AST node for pipeline and extractor tests.
type fakeNode struct {
	ident    string
	ref      *fakeNode
	kind     string
	loc      frontend.Location
	children []*fakeNode
}

var _ frontend.Node = (*fakeNode)(nil)

func (n *fakeNode) ResolvedIdentifier() string { return n.ident }

func (n *fakeNode) Referenced() frontend.Node {
	if n.ref == nil {
		return nil
	}
	return n.ref
}

func (n *fakeNode) Kind() string { return n.kind }

func (n *fakeNode) Location() frontend.Location { return n.loc }

func (n *fakeNode) Children() []frontend.Node {
	out := make([]frontend.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func at(path string, line, column uint32) frontend.Location {
	return frontend.Location{Path: path, Line: line, Column: column}
}

// declAndCall builds the canonical two-occurrence tree for path: a root
// holding a declaration of ident and a use-site referring back to it.
func declAndCall(path, ident string) *fakeNode {
	decl := &fakeNode{
		ident: ident,
		kind:  "FunctionDecl",
		loc:   at(path, 1, 1),
	}
	call := &fakeNode{
		ref:  decl,
		kind: "CallExpr",
		loc:  at(path, 5, 2),
	}
	return &fakeNode{
		kind:     "TranslationUnit",
		loc:      at(path, 1, 1),
		children: []*fakeNode{decl, call},
	}
}

// fakeParser serves canned trees per path and records what it was asked.
// It is called concurrently by pipeline workers.
type fakeParser struct {
	trees    map[string]*fakeNode
	failures map[string]error
	calls    atomic.Int32

	mu       sync.Mutex
	lastArgs []string
}

var _ frontend.Parser = (*fakeParser)(nil)

func (p *fakeParser) Parse(ctx context.Context, path string, args []string) (*frontend.TranslationUnit, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.lastArgs = args
	p.mu.Unlock()
	if err, ok := p.failures[path]; ok {
		return nil, err
	}
	root, ok := p.trees[path]
	if !ok {
		return nil, fmt.Errorf("no tree configured for %s", path)
	}
	return &frontend.TranslationUnit{Path: path, Root: root}, nil
}
