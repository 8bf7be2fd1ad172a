package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/xref/internal/frontend"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

// occurrencesOf collects the locations of every node that resolves to usr,
// directly or through the declaration it references.
func occurrencesOf(unit *frontend.TranslationUnit, usr string) []frontend.Location {
	var locs []frontend.Location
	frontend.Walk(unit.Root, func(n frontend.Node) {
		id := n.ResolvedIdentifier()
		if ref := n.Referenced(); ref != nil {
			id = ref.ResolvedIdentifier()
		}
		if id == usr {
			locs = append(locs, n.Location())
		}
	})
	return locs
}

func TestParse_GoDeclarationAndCall(t *testing.T) {
	path := writeSource(t, "main.go", `package main

func f() {}

func main() {
	f()
}
`)

	unit, err := New().Parse(context.Background(), path, nil)
	require.NoError(t, err)
	require.Equal(t, path, unit.Path)

	locs := occurrencesOf(unit, "c:@f")
	require.Len(t, locs, 2, "declaration and call site both resolve to f")
	assert.Equal(t, uint32(3), locs[0].Line)
	assert.Equal(t, uint32(6), locs[0].Column)
	assert.Equal(t, uint32(6), locs[1].Line)
	assert.Equal(t, uint32(2), locs[1].Column)
	for _, loc := range locs {
		assert.Equal(t, path, loc.Path)
	}
}

func TestParse_CFunctionResolution(t *testing.T) {
	path := writeSource(t, "math.c", `int f(int x) { return x; }
int g(void) { return f(2); }
`)

	unit, err := New().Parse(context.Background(), path, nil)
	require.NoError(t, err)

	assert.Len(t, occurrencesOf(unit, "c:@f"), 2, "definition and call site")
	assert.Len(t, occurrencesOf(unit, "c:@x"), 2, "parameter and its use")
}

func TestParse_PythonFunction(t *testing.T) {
	path := writeSource(t, "mod.py", `def f():
    pass

f()
`)

	unit, err := New().Parse(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Len(t, occurrencesOf(unit, "c:@f"), 2)
}

func TestParse_UnresolvedIdentifiersYieldNothing(t *testing.T) {
	// print names no declaration in this file, so it contributes no facts.
	path := writeSource(t, "ext.py", `print(1)
`)

	unit, err := New().Parse(context.Background(), path, nil)
	require.NoError(t, err)

	total := 0
	frontend.Walk(unit.Root, func(n frontend.Node) {
		if n.ResolvedIdentifier() != "" || n.Referenced() != nil {
			total++
		}
	})
	assert.Zero(t, total)
}

func TestParse_UnknownExtensionFails(t *testing.T) {
	path := writeSource(t, "data.bin", "not code")
	_, err := New().Parse(context.Background(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no grammar")
}

func TestParse_MissingFileFails(t *testing.T) {
	_, err := New().Parse(context.Background(), filepath.Join(t.TempDir(), "gone.go"), nil)
	require.Error(t, err)
}

func TestSupportedExtensions_CoverRegisteredGrammars(t *testing.T) {
	exts := SupportedExtensions()
	for _, want := range []string{".go", ".c", ".cpp", ".py", ".rs", ".java", ".js", ".ts", ".cs", ".php", ".zig"} {
		assert.Contains(t, exts, want)
	}
}
