package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config carries the indexer's settings: where the project lives, which
// descriptor enumerates its files, where the built index goes, and how wide
// the extraction pool runs.
type Config struct {
	Version     int
	Project     Project
	Descriptor  string // build descriptor path, resolved against Project.Root when relative
	Performance Performance
	Output      Output
}

type Project struct {
	Root string
	Name string
}

type Performance struct {
	Workers int // extraction workers; 0 = one per CPU
}

type Output struct {
	Path string // persisted index path, resolved against Project.Root when relative
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Version:    1,
		Project:    Project{Root: dir},
		Descriptor: "xref.sources.json",
		Performance: Performance{
			Workers: runtime.NumCPU(),
		},
		Output: Output{Path: "xref.idx"},
	}
}

// Load reads configuration for a project directory: the global base config
// from ~/.xref.kdl (if present), overridden by the project's .xref.kdl (if
// present), over built-in defaults.
func Load(projectDir string) (*Config, error) {
	searchDir := projectDir
	if searchDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			searchDir = cwd
		} else {
			searchDir = "."
		}
	}

	cfg := Default(searchDir)

	if homeDir, err := os.UserHomeDir(); err == nil {
		if err := applyKDL(cfg, filepath.Join(homeDir, ".xref.kdl")); err != nil {
			return nil, err
		}
	}
	if err := applyKDL(cfg, filepath.Join(searchDir, ".xref.kdl")); err != nil {
		return nil, err
	}

	// Root may have been overridden by config; normalize it and resolve the
	// relative paths against it.
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(searchDir, cfg.Project.Root))
	}
	cfg.Descriptor = resolveAgainstRoot(cfg.Descriptor, cfg.Project.Root)
	cfg.Output.Path = resolveAgainstRoot(cfg.Output.Path, cfg.Project.Root)
	return cfg, nil
}

func resolveAgainstRoot(path, root string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
