package collector

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/licomply/pkg/logger"
)

// pep440Comparators are the version delimiters that may follow a package
// name on a requirements line. "==" is by far the most common; the rest
// are accepted for robustness.
var pep440Comparators = []string{"==", ">=", "<=", "~=", "!=", "===", ">", "<"}

// ScanRequirementsFiles reads every file directly under root whose name
// contains "requirement" and ends in .txt, collecting the package name
// from each non-blank, non-comment line. A file that cannot be read is
// skipped.
func ScanRequirementsFiles(root string) (Set, error) {
	pattern := filepath.Join(root, "*requirement*.txt")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}

	found := NewSet()
	for _, path := range matches {
		f, err := os.Open(path) // #nosec G304 -- path comes from the project root glob
		if err != nil {
			logger.Debug("Skipping unreadable requirements file", logger.String("path", path))
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if name := parseRequirementLine(scanner.Text()); name != "" {
				found.Add(name)
			}
		}
		_ = f.Close()
	}
	return found, nil
}

// parseRequirementLine extracts the package name from one requirements
// line: everything before the first version comparator, trimmed, with any
// extras suffix ("pkg[extra]") removed. Blank lines, comments, and pip
// directives ("-r other.txt") yield "".
func parseRequirementLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
		return ""
	}

	name := trimmed
	for _, comparator := range pep440Comparators {
		if idx := strings.Index(name, comparator); idx >= 0 {
			name = name[:idx]
		}
	}
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.Index(name, ";"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}
