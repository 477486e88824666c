package collector

import (
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/fulmenhq/licomply/pkg/logger"
)

// pyproject mirrors the sections of pyproject.toml that name dependencies.
// Poetry dependency values may be version strings or tables, so they are
// left as interface{}; only the keys matter here.
type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]interface{} `toml:"dependencies"`
			DevDependencies map[string]interface{} `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// requirementName matches the leading package name of a PEP 508
// requirement string such as "requests>=2.31" or "uvicorn[standard]".
var requirementName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)

// ParsePyprojectManifest extracts dependency names from a pyproject.toml:
// Poetry dependencies, dev-dependencies and dependency groups (skipping
// the "python" interpreter pseudo-entry), plus PEP 621 [project]
// dependency strings. A missing or malformed file contributes an empty
// set; the run continues.
func ParsePyprojectManifest(path string) Set {
	found := NewSet()

	data, err := os.ReadFile(path) // #nosec G304 -- fixed relative path under the target root
	if err != nil {
		return found
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		logger.Warn("Skipping malformed pyproject.toml", logger.String("path", path), logger.Err(err))
		return found
	}

	for name := range doc.Tool.Poetry.Dependencies {
		if name != "python" {
			found.Add(name)
		}
	}
	for name := range doc.Tool.Poetry.DevDependencies {
		if name != "python" {
			found.Add(name)
		}
	}
	for _, group := range doc.Tool.Poetry.Group {
		for name := range group.Dependencies {
			if name != "python" {
				found.Add(name)
			}
		}
	}

	for _, req := range doc.Project.Dependencies {
		if name := requirementName.FindString(req); name != "" {
			found.Add(name)
		}
	}
	for _, reqs := range doc.Project.OptionalDependencies {
		for _, req := range reqs {
			if name := requirementName.FindString(req); name != "" {
				found.Add(name)
			}
		}
	}

	return found
}
