// Package lookup obtains raw license text for dependencies. The Provider
// interface is the seam between the audit pipeline and however license
// text is actually produced; the pipeline never cares which.
package lookup

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnknownLicense is reported when a provider cannot determine a license
// for a dependency. It flows through resolution unchanged and surfaces as
// a violation unless explicitly allow-listed.
const UnknownLicense = "Unknown"

// Provider supplies the raw license string for one dependency.
type Provider interface {
	LicenseFor(ctx context.Context, name string) (string, error)
}

// StaticProvider serves licenses from a fixed map, for tests and offline
// fixtures. Missing entries report UnknownLicense.
type StaticProvider struct {
	Licenses map[string]string
}

// NewStaticProvider creates a provider over the given name → license map.
func NewStaticProvider(licenses map[string]string) *StaticProvider {
	return &StaticProvider{Licenses: licenses}
}

func (p *StaticProvider) LicenseFor(_ context.Context, name string) (string, error) {
	if license, ok := p.Licenses[name]; ok {
		return license, nil
	}
	return UnknownLicense, nil
}

// NewStaticProviderFromFile loads a YAML name → license map from path.
// This backs the "static" lookup provider for air-gapped and CI runs
// where the registry must not be consulted.
func NewStaticProviderFromFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied licenses file
	if err != nil {
		return nil, fmt.Errorf("failed to read licenses file: %w", err)
	}
	licenses := make(map[string]string)
	if err := yaml.Unmarshal(data, &licenses); err != nil {
		return nil, fmt.Errorf("failed to parse licenses file %s: %w", path, err)
	}
	return NewStaticProvider(licenses), nil
}
