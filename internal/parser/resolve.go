package parser

// Name resolution over a materialized file. Resolution is name-based, in two
// passes: collect every declaration name into a per-file symbol table, then
// point every other identifier occurrence at the declaration it names. The
// canonical identifier a declaration gets ("c:@<name>") depends only on the
// name, so occurrences of the same symbol in different files intern to the
// same string when their indexes are merged.
//
// Identifiers that name no declaration in any indexed file (keywords are
// never identifiers; this is externals and imports) resolve to nothing and
// contribute no facts.

const usrPrefix = "c:@"

func resolveFile(root *astNode) {
	decls := make(map[string]*astNode)
	collectDeclarations(root, decls)
	resolveReferences(root, decls)
}

// collectDeclarations assigns a canonical identifier to every declaration
// name. The first declaration of a name in a file wins; redeclarations
// resolve to it as references do.
func collectDeclarations(n *astNode, decls map[string]*astNode) {
	if n.declName && n.name != "" {
		if _, ok := decls[n.name]; !ok {
			n.usr = usrPrefix + n.name
			decls[n.name] = n
		}
	}
	for _, child := range n.children {
		collectDeclarations(child, decls)
	}
}

// resolveReferences links every identifier occurrence that is not itself a
// declaration name to the declaration it refers to.
func resolveReferences(n *astNode, decls map[string]*astNode) {
	if n.name != "" && n.usr == "" {
		if decl, ok := decls[n.name]; ok {
			n.ref = decl
		}
	}
	for _, child := range n.children {
		resolveReferences(child, decls)
	}
}
