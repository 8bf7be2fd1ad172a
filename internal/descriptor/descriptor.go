// Package descriptor reads the build descriptor: the ordered list of source
// files to index together with the compiler flags each one needs. JSON is
// the native format; YAML and TOML descriptors are accepted by extension.
package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	errs "github.com/standardbeagle/xref/internal/errors"
)

// SourceFile is one descriptor record: a file to index and the preprocessor
// flags it is compiled with. Absent optional lists default to empty.
type SourceFile struct {
	Path      string   `json:"file" yaml:"file" toml:"file"`
	Defines   []string `json:"defines,omitempty" yaml:"defines,omitempty" toml:"defines,omitempty"`
	Includes  []string `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty"`
	ExtraArgs []string `json:"extraArgs,omitempty" yaml:"extraArgs,omitempty" toml:"extraArgs,omitempty"`
}

// CompilerArgs renders the record's flags the way a compiler command line
// would receive them: -D per define, -I per include, extra args verbatim.
func (sf SourceFile) CompilerArgs() []string {
	args := make([]string, 0, len(sf.Defines)+len(sf.Includes)+len(sf.ExtraArgs))
	for _, define := range sf.Defines {
		args = append(args, "-D"+define)
	}
	for _, include := range sf.Includes {
		args = append(args, "-I"+include)
	}
	args = append(args, sf.ExtraArgs...)
	return args
}

// tomlDescriptor wraps the record list for TOML, which cannot represent a
// top-level array: each record is a [[source]] block.
type tomlDescriptor struct {
	Sources []SourceFile `toml:"source"`
}

// Read loads the descriptor at path and returns its records in order.
// Record paths containing glob metacharacters are expanded with doublestar
// relative to the descriptor's directory, matches sorted for a deterministic
// record order. Any failure here is a StartupError: a build cannot start
// from a descriptor it cannot trust.
func Read(path string) ([]SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewStartupError("read descriptor", path, err)
	}

	var records []SourceFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	case ".toml":
		var doc tomlDescriptor
		if err = toml.Unmarshal(data, &doc); err == nil {
			records = doc.Sources
		}
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, errs.NewStartupError("parse descriptor", path, err)
	}

	baseDir := filepath.Dir(path)
	expanded := make([]SourceFile, 0, len(records))
	for i, record := range records {
		if record.Path == "" {
			return nil, errs.NewStartupError("parse descriptor", path,
				fmt.Errorf("record %d has no file path", i))
		}
		paths, err := expandPath(record.Path, baseDir)
		if err != nil {
			return nil, errs.NewStartupError("expand descriptor globs", path, err)
		}
		for _, p := range paths {
			rec := record
			rec.Path = p
			expanded = append(expanded, rec)
		}
	}
	return expanded, nil
}

// expandPath resolves one record path. Plain paths pass through (resolved
// against baseDir when relative); glob patterns expand to their sorted
// matches.
func expandPath(pattern, baseDir string) ([]string, error) {
	resolved := pattern
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}
	if !isGlobPattern(pattern) {
		return []string{resolved}, nil
	}
	matches, err := doublestar.FilepathGlob(resolved)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func isGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
