package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fulmenhq/licomply/pkg/catalog"
)

// PyPIProvider resolves raw license strings from the PyPI JSON API. It
// prefers the package's declared license field and falls back to the
// osi-approved trove classifier when the field is empty or a full license
// text blob. Results are cached for the configured TTL.
type PyPIProvider struct {
	baseURL string
	cache   map[string]*cacheEntry
	mu      sync.RWMutex
	ttl     time.Duration
	fetcher catalog.HTTPFetcher
}

type cacheEntry struct {
	license string
	expiry  time.Time
}

// NewPyPIProvider creates a PyPIProvider with real HTTP for production use
func NewPyPIProvider(ttl, timeout time.Duration) *PyPIProvider {
	return NewPyPIProviderWithFetcher(ttl, catalog.NewRealHTTPFetcher(catalog.DefaultHTTPClient(timeout)))
}

// NewPyPIProviderWithFetcher creates a PyPIProvider with injectable HTTP for testing
func NewPyPIProviderWithFetcher(ttl time.Duration, fetcher catalog.HTTPFetcher) *PyPIProvider {
	return &PyPIProvider{
		baseURL: "https://pypi.org/pypi",
		cache:   make(map[string]*cacheEntry),
		ttl:     ttl,
		fetcher: fetcher,
	}
}

func (p *PyPIProvider) LicenseFor(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	entry, ok := p.cache[name]
	p.mu.RUnlock()
	if ok && time.Now().Before(entry.expiry) {
		return entry.license, nil
	}

	pkgURL := fmt.Sprintf("%s/%s/json", p.baseURL, name)
	resp, err := p.fetcher.Get(ctx, pkgURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch package metadata: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		// Not on PyPI (private or local package); license is unknowable here
		return p.store(name, UnknownLicense), nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("PyPI registry returned status %d for %s", resp.StatusCode, name)
	}

	var pkgData struct {
		Info struct {
			License     string   `json:"license"`
			Classifiers []string `json:"classifiers"`
		} `json:"info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pkgData); err != nil {
		return "", fmt.Errorf("failed to decode package metadata: %w", err)
	}

	license := strings.TrimSpace(pkgData.Info.License)
	// Some projects paste the entire license text into the field; a
	// classifier is a far better signal in that case.
	if license == "" || len(license) > 120 {
		if fromClassifier := licenseFromClassifiers(pkgData.Info.Classifiers); fromClassifier != "" {
			license = fromClassifier
		}
	}
	if license == "" {
		license = UnknownLicense
	}

	return p.store(name, license), nil
}

func (p *PyPIProvider) store(name, license string) string {
	p.mu.Lock()
	p.cache[name] = &cacheEntry{license: license, expiry: time.Now().Add(p.ttl)}
	p.mu.Unlock()
	return license
}

// licenseFromClassifiers extracts a license name from trove classifiers
// such as "License :: OSI Approved :: MIT License".
func licenseFromClassifiers(classifiers []string) string {
	for _, c := range classifiers {
		if !strings.HasPrefix(c, "License ::") {
			continue
		}
		parts := strings.Split(c, "::")
		last := strings.TrimSpace(parts[len(parts)-1])
		if last != "" && last != "OSI Approved" {
			return last
		}
	}
	return ""
}
