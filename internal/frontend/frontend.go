// Package frontend defines the boundary to the semantic-analysis frontend:
// the component that parses one source file and resolves what each syntax
// node refers to. The index core only ever sees this capability surface -
// identifier, kind label, position - never a frontend's own type system.
package frontend

import "context"

// Location is a resolved source position after any preprocessor expansion.
// Line and Column are 1-based.
type Location struct {
	Path   string
	Line   uint32
	Column uint32
}

// Node is one syntax node of a parsed translation unit.
type Node interface {
	// ResolvedIdentifier returns the canonical string uniquely naming the
	// declaration this node itself denotes, or "" if it denotes none. The
	// identifier is stable across the declaration's redeclarations and all
	// references to it.
	ResolvedIdentifier() string

	// Referenced returns the declaration node this node refers to (a
	// use-site's definition), or nil. When non-nil, the referenced node's
	// identifier stands in for this node's own.
	Referenced() Node

	// Kind returns a free-text label describing the node.
	Kind() string

	// Location returns the node's resolved source position.
	Location() Location

	// Children returns the node's children in source order.
	Children() []Node
}

// TranslationUnit is one successfully parsed source file.
type TranslationUnit struct {
	Path string
	Root Node
}

// Parser parses one source file with the given compiler-style flags. A
// parse failure is returned as an error and is never fatal to the caller:
// the pipeline logs it and contributes no facts for that file.
type Parser interface {
	Parse(ctx context.Context, path string, args []string) (*TranslationUnit, error)
}

// Walk visits n and every descendant in depth-first pre-order. Every node is
// visited; no subtree is pruned.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}
