package parser

import (
	"path/filepath"
	"strings"
	"sync"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// languageEntry lazily constructs one grammar. Language objects are shared
// across parser instances; tree_sitter.Parser instances are not.
type languageEntry struct {
	once sync.Once
	lang *tree_sitter.Language
	init func() *tree_sitter.Language
}

func (e *languageEntry) language() *tree_sitter.Language {
	e.once.Do(func() {
		e.lang = e.init()
	})
	return e.lang
}

var languagesByExt = map[string]*languageEntry{}

func registerLanguage(init func() *tree_sitter.Language, exts ...string) {
	entry := &languageEntry{init: init}
	for _, ext := range exts {
		languagesByExt[ext] = entry
	}
}

func init() {
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_go.Language())
	}, ".go")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	}, ".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	}, ".js", ".jsx", ".mjs")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	}, ".ts", ".tsx")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	}, ".py")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_rust.Language())
	}, ".rs")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_java.Language())
	}, ".java")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_csharp.Language())
	}, ".cs")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	}, ".php")
	registerLanguage(func() *tree_sitter.Language {
		return tree_sitter.NewLanguage(tree_sitter_zig.Language())
	}, ".zig")
}

// languageForPath returns the grammar for a file path's extension, or nil if
// no grammar is registered for it.
func languageForPath(path string) *tree_sitter.Language {
	entry := languagesByExt[strings.ToLower(filepath.Ext(path))]
	if entry == nil {
		return nil
	}
	return entry.language()
}

// SupportedExtensions returns the registered extensions, for diagnostics.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(languagesByExt))
	for ext := range languagesByExt {
		exts = append(exts, ext)
	}
	return exts
}
