package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/standardbeagle/xref/internal/errors"
)

func writeDescriptor(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_JSON(t *testing.T) {
	path := writeDescriptor(t, "build.json", `[
		{"file": "/src/a.c", "defines": ["FOO", "BAR=1"], "includes": ["/usr/include/x"], "extraArgs": ["-std=c11"]},
		{"file": "/src/b.c"}
	]`)

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "/src/a.c", records[0].Path)
	assert.Equal(t, []string{"FOO", "BAR=1"}, records[0].Defines)
	assert.Equal(t, []string{"/usr/include/x"}, records[0].Includes)
	assert.Equal(t, []string{"-std=c11"}, records[0].ExtraArgs)

	// Absent optional lists default to empty
	assert.Equal(t, "/src/b.c", records[1].Path)
	assert.Empty(t, records[1].Defines)
	assert.Empty(t, records[1].Includes)
	assert.Empty(t, records[1].ExtraArgs)
}

func TestRead_YAML(t *testing.T) {
	path := writeDescriptor(t, "build.yaml", `
- file: /src/a.c
  defines: [FOO]
- file: /src/b.c
  extraArgs: ["-std=c11"]
`)

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"FOO"}, records[0].Defines)
	assert.Equal(t, []string{"-std=c11"}, records[1].ExtraArgs)
}

func TestRead_TOML(t *testing.T) {
	path := writeDescriptor(t, "build.toml", `
[[source]]
file = "/src/a.c"
defines = ["FOO"]

[[source]]
file = "/src/b.c"
`)

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/src/a.c", records[0].Path)
	assert.Equal(t, []string{"FOO"}, records[0].Defines)
}

func TestRead_RelativePathsResolveAgainstDescriptorDir(t *testing.T) {
	path := writeDescriptor(t, "build.json", `[{"file": "src/a.c"}]`)

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "src", "a.c"), records[0].Path)
}

func TestRead_GlobExpansion(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	for _, name := range []string{"b.c", "a.c", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), nil, 0644))
	}
	path := filepath.Join(dir, "build.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"file": "src/*.c", "defines": ["X"]}]`), 0644))

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Matches are sorted so the record order is deterministic, and every
	// expanded record inherits the pattern's flags.
	assert.Equal(t, filepath.Join(srcDir, "a.c"), records[0].Path)
	assert.Equal(t, filepath.Join(srcDir, "b.c"), records[1].Path)
	assert.Equal(t, []string{"X"}, records[0].Defines)
	assert.Equal(t, []string{"X"}, records[1].Defines)
}

func TestRead_FailuresAreStartupErrors(t *testing.T) {
	var startupErr *errs.StartupError

	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorAs(t, err, &startupErr)

	malformed := writeDescriptor(t, "bad.json", `{"not": "a list"`)
	_, err = Read(malformed)
	require.ErrorAs(t, err, &startupErr)

	noPath := writeDescriptor(t, "nopath.json", `[{"defines": ["FOO"]}]`)
	_, err = Read(noPath)
	require.ErrorAs(t, err, &startupErr)
}

func TestCompilerArgs_Order(t *testing.T) {
	record := SourceFile{
		Defines:   []string{"A", "B=2"},
		Includes:  []string{"/inc"},
		ExtraArgs: []string{"-fno-exceptions"},
	}
	assert.Equal(t, []string{"-DA", "-DB=2", "-I/inc", "-fno-exceptions"}, record.CompilerArgs())

	assert.Empty(t, SourceFile{}.CompilerArgs())
}
