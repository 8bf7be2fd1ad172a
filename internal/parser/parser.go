// Package parser implements the frontend boundary on top of tree-sitter.
// One grammar is registered per file extension; a parsed file is materialized
// into plain Go nodes and resolved name-by-name within the file, so the
// tree-sitter tree can be released before the translation unit escapes.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/xref/internal/debug"
	errs "github.com/standardbeagle/xref/internal/errors"
	"github.com/standardbeagle/xref/internal/frontend"
)

// TreeSitterParser implements frontend.Parser. Instances hold no parse
// state and are safe to share; each Parse call allocates its own
// tree_sitter.Parser, which is not concurrency-safe.
type TreeSitterParser struct{}

// New creates a tree-sitter backed frontend parser.
func New() *TreeSitterParser {
	return &TreeSitterParser{}
}

// Parse parses one source file and returns its translation unit. Compiler
// flags are accepted for interface compatibility; tree-sitter parses without
// a preprocessor, so they carry no effect here. Any failure is recoverable:
// the caller logs it and contributes no facts for the file.
func (p *TreeSitterParser) Parse(ctx context.Context, path string, args []string) (*frontend.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := languageForPath(path)
	if lang == nil {
		return nil, errs.NewExtractionError(path, args,
			fmt.Errorf("no grammar registered for extension %q", filepath.Ext(path)))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewExtractionError(path, args, err)
	}

	tsParser := tree_sitter.NewParser()
	if err := tsParser.SetLanguage(lang); err != nil {
		return nil, errs.NewExtractionError(path, args, fmt.Errorf("failed to set grammar: %w", err))
	}

	// Tree-sitter mutates input buffers via CGO; parse a copy so content
	// stays untouched.
	buffer := make([]byte, len(content))
	copy(buffer, content)

	tree := tsParser.Parse(buffer, nil)
	if tree == nil {
		return nil, errs.NewExtractionError(path, args, fmt.Errorf("tree-sitter produced no tree"))
	}
	defer tree.Close()

	root := materialize(tree.RootNode(), buffer, path)
	resolveFile(root)
	debug.LogParse("parsed %s\n", path)

	return &frontend.TranslationUnit{Path: path, Root: root}, nil
}
