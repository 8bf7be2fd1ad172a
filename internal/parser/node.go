package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/xref/internal/frontend"
)

// astNode is a materialized syntax node. It owns no tree-sitter state: kind,
// position and identifier text are copied out during materialization so the
// CGO-backed tree can be closed before the node escapes the parser.
type astNode struct {
	kind     string
	loc      frontend.Location
	name     string   // identifier text, set only for identifier nodes
	declName bool     // node is the name field of a declaration-like parent
	usr      string   // canonical identifier, set during resolution
	ref      *astNode // referenced declaration, set during resolution
	children []*astNode
}

var _ frontend.Node = (*astNode)(nil)

func (n *astNode) ResolvedIdentifier() string {
	return n.usr
}

func (n *astNode) Referenced() frontend.Node {
	if n.ref == nil {
		return nil
	}
	return n.ref
}

func (n *astNode) Kind() string {
	return n.kind
}

func (n *astNode) Location() frontend.Location {
	return n.loc
}

func (n *astNode) Children() []frontend.Node {
	out := make([]frontend.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// materialize copies the named-node structure of a tree-sitter tree into
// astNodes: kind, 1-based position, identifier text, and whether the node is
// the name of a declaration-like parent.
func materialize(node *tree_sitter.Node, content []byte, path string) *astNode {
	point := node.StartPosition()
	out := &astNode{
		kind: node.Kind(),
		loc: frontend.Location{
			Path:   path,
			Line:   uint32(point.Row) + 1,
			Column: uint32(point.Column) + 1,
		},
	}
	if isIdentifierKind(out.kind) {
		out.name = string(content[node.StartByte():node.EndByte()])
	}

	// Declaration names sit behind a "name" field in most grammars; C and
	// C++ chain through "declarator" fields instead, each link of which is
	// itself declaration-like, so the chain bottoms out at the identifier.
	var nameFieldID uintptr
	if isDeclarationKind(out.kind) {
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = node.ChildByFieldName("declarator")
		}
		if nameNode != nil {
			nameFieldID = nameNode.Id()
		}
	}

	count := node.NamedChildCount()
	out.children = make([]*astNode, 0, count)
	for i := uint(0); i < count; i++ {
		tsChild := node.NamedChild(i)
		child := materialize(tsChild, content, path)
		if nameFieldID != 0 && tsChild.Id() == nameFieldID {
			child.declName = true
		}
		out.children = append(out.children, child)
	}
	return out
}

// isIdentifierKind matches the identifier node kinds the grammars share:
// identifier, type_identifier, field_identifier, property_identifier, ...
func isIdentifierKind(kind string) bool {
	return strings.HasSuffix(kind, "identifier")
}

// isDeclarationKind matches the declaration-introducing node kinds across
// grammars: *_declaration, *_definition, *_declarator (C/C++), *_spec (Go),
// *_item (Rust).
func isDeclarationKind(kind string) bool {
	return strings.Contains(kind, "declaration") ||
		strings.Contains(kind, "definition") ||
		strings.Contains(kind, "declarator") ||
		strings.HasSuffix(kind, "_spec") ||
		strings.HasSuffix(kind, "_item")
}
