package collector

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/fulmenhq/licomply/pkg/logger"
)

// poetryLock mirrors the [[package]] entries of a poetry.lock document.
type poetryLock struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// ParsePoetryLock extracts the name of every locked package. A missing or
// malformed lock file contributes an empty set; the run continues.
func ParsePoetryLock(path string) Set {
	found := NewSet()

	data, err := os.ReadFile(path) // #nosec G304 -- fixed relative path under the target root
	if err != nil {
		return found
	}

	var lock poetryLock
	if err := toml.Unmarshal(data, &lock); err != nil {
		logger.Warn("Skipping malformed poetry.lock", logger.String("path", path), logger.Err(err))
		return found
	}

	for _, pkg := range lock.Package {
		found.Add(pkg.Name)
	}
	return found
}
