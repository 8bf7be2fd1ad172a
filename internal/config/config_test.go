package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "no-home"))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Project.Root)
	assert.Equal(t, filepath.Join(dir, "xref.sources.json"), cfg.Descriptor)
	assert.Equal(t, filepath.Join(dir, "xref.idx"), cfg.Output.Path)
	assert.Equal(t, runtime.NumCPU(), cfg.Performance.Workers)
}

func TestLoad_ProjectKDLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "no-home"))

	kdl := `
project {
    name "myproject"
}
descriptor "compile.json"
performance {
    workers 3
}
output {
    path "build/xref.idx"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xref.kdl"), []byte(kdl), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "myproject", cfg.Project.Name)
	assert.Equal(t, filepath.Join(dir, "compile.json"), cfg.Descriptor)
	assert.Equal(t, filepath.Join(dir, "build", "xref.idx"), cfg.Output.Path)
	assert.Equal(t, 3, cfg.Performance.Workers)
}

func TestLoad_GlobalBaseOverriddenByProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".xref.kdl"), []byte(`
performance {
    workers 2
}
descriptor "global.json"
`), 0644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xref.kdl"), []byte(`
descriptor "project.json"
`), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Project file wins where it speaks; global base still applies elsewhere
	assert.Equal(t, filepath.Join(dir, "project.json"), cfg.Descriptor)
	assert.Equal(t, 2, cfg.Performance.Workers)
}

func TestLoad_MalformedKDLIsAnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "no-home"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xref.kdl"), []byte(`project {`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_AbsolutePathsLeftAlone(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "no-home"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xref.kdl"), []byte(`
descriptor "/abs/compile.json"
output {
    path "/abs/out.idx"
}
`), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/abs/compile.json", cfg.Descriptor)
	assert.Equal(t, "/abs/out.idx", cfg.Output.Path)
}
