package collector

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fulmenhq/licomply/pkg/logger"
)

var (
	importStmt = regexp.MustCompile(`^\s*import\s+(.+)$`)
	fromStmt   = regexp.MustCompile(`^\s*from\s+([A-Za-z_][A-Za-z0-9_.]*)\s+import\b`)
)

// ScanSourceImports walks all Python files under root and collects the
// top-level module of every import statement, excluding standard-library
// modules. Unreadable or unparseable files are skipped; a per-file failure
// never aborts the scan.
func ScanSourceImports(root string) (Set, error) {
	found := NewSet()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries are skipped, not fatal
			logger.Debug("Skipping unreadable path", logger.String("path", path))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		for _, module := range extractImports(path) {
			if !IsStdlibModule(module) {
				found.Add(module)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// extractImports returns the top-level modules imported by one Python file.
// Parse failures yield an empty result.
func extractImports(path string) []string {
	f, err := os.Open(path) // #nosec G304 -- path comes from the walked project tree
	if err != nil {
		logger.Debug("Skipping unreadable source file", logger.String("path", path))
		return nil
	}
	defer func() { _ = f.Close() }()

	var modules []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if m := fromStmt.FindStringSubmatch(line); m != nil {
			modules = append(modules, topLevelModule(m[1]))
			continue
		}
		if m := importStmt.FindStringSubmatch(line); m != nil {
			// "import a.b, c as d" imports both a and c
			for _, clause := range strings.Split(m[1], ",") {
				fields := strings.Fields(strings.TrimSpace(clause))
				if len(fields) == 0 {
					continue
				}
				modules = append(modules, topLevelModule(fields[0]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Debug("Skipping source file after scan error",
			logger.String("path", path), logger.Err(err))
		return nil
	}
	return modules
}

// topLevelModule reduces a dotted module path to its first segment.
// Relative imports ("from . import x") have no top-level module.
func topLevelModule(dotted string) string {
	first := strings.SplitN(dotted, ".", 2)[0]
	return strings.TrimSpace(first)
}
