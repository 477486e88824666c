// Package collector discovers third-party dependency names for a Python
// project from four sources: source imports, requirements text files,
// pyproject.toml, and poetry.lock. Results are merged into one set keyed
// by PEP 503 normalized name.
package collector

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fulmenhq/licomply/pkg/logger"
)

// Set is a set of dependency names.
type Set map[string]struct{}

// NewSet builds a set from the given names, normalizing each.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name after PEP 503 normalization. Empty names are ignored.
func (s Set) Add(name string) {
	if normalized := NormalizeName(name); normalized != "" {
		s[normalized] = struct{}{}
	}
}

// Union merges the given sets into s and returns s.
func (s Set) Union(others ...Set) Set {
	for _, other := range others {
		for name := range other {
			s[name] = struct{}{}
		}
	}
	return s
}

// Contains reports membership of the normalized form of name.
func (s Set) Contains(name string) bool {
	_, ok := s[NormalizeName(name)]
	return ok
}

// Sorted returns the set's members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName applies PEP 503 name normalization: lowercase, with runs
// of hyphens, underscores and dots collapsed to a single hyphen. This is
// the dependency-identity decision for the whole pipeline: "Flask" from a
// requirements file and "flask" from an import scan are one dependency.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(nameSeparators.ReplaceAllString(trimmed, "-"))
}

// Directories never scanned for imports or requirements files.
var skipDirs = map[string]bool{
	".venv":         true,
	"venv":          true,
	".env":          true,
	"env":           true,
	".git":          true,
	".svn":          true,
	".hg":           true,
	"__pycache__":   true,
	".pytest_cache": true,
	".tox":          true,
	"node_modules":  true,
	"dist":          true,
	"build":         true,
}

// Aggregate returns the union of dependency names from all four sources
// under root: source-file imports, *requirement*.txt files, pyproject.toml,
// and poetry.lock. Missing manifest and lock files contribute empty sets.
func Aggregate(root string) (Set, error) {
	imports, err := ScanSourceImports(root)
	if err != nil {
		return nil, err
	}
	requirements, err := ScanRequirementsFiles(root)
	if err != nil {
		return nil, err
	}
	manifest := ParsePyprojectManifest(filepath.Join(root, "pyproject.toml"))
	lock := ParsePoetryLock(filepath.Join(root, "poetry.lock"))

	all := NewSet().Union(imports, requirements, manifest, lock)
	logger.Debug("Aggregated dependencies",
		logger.Int("imports", len(imports)),
		logger.Int("requirements", len(requirements)),
		logger.Int("manifest", len(manifest)),
		logger.Int("lock", len(lock)),
		logger.Int("total", len(all)))
	return all, nil
}
