package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/licomply/pkg/catalog"
	"github.com/fulmenhq/licomply/pkg/lookup"
	"github.com/fulmenhq/licomply/pkg/policy"
)

const spdxSample = `{
  "licenses": [
    {"licenseId": "MIT", "name": "MIT License"},
    {"licenseId": "Apache-2.0", "name": "Apache License 2.0"},
    {"licenseId": "GPL-3.0", "name": "GNU General Public License v3.0"},
    {"licenseId": "BSD-3-Clause", "name": "BSD 3-Clause \"New\" or \"Revised\" License"}
  ]
}`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.FromSPDX([]byte(spdxSample))
	if err != nil {
		t.Fatalf("catalog load failed: %v", err)
	}
	return cat
}

func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"app.py":           "import pkga\nimport os\n",
		"requirements.txt": "pkgb==1.0.0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunNonCompliant(t *testing.T) {
	provider := lookup.NewStaticProvider(map[string]string{
		"pkga": "MIT License",
		"pkgb": "GNU General Public License v3.0",
	})

	result, err := Run(context.Background(), Options{
		Target:   fixtureProject(t),
		Allow:    []string{"MIT", "Apache-2.0"},
		Catalog:  testCatalog(t),
		Provider: provider,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Passed {
		t.Error("expected non-compliant result")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", result.Violations)
	}
	if result.Violations[0].Name != "pkgb" || result.Violations[0].License != "GPL-3.0" {
		t.Errorf("violation = %+v, want pkgb/GPL-3.0", result.Violations[0])
	}
}

func TestRunCompliant(t *testing.T) {
	provider := lookup.NewStaticProvider(map[string]string{
		"pkga": "MIT",
		"pkgb": "MIT License",
	})

	result, err := Run(context.Background(), Options{
		Target:   fixtureProject(t),
		Allow:    []string{"MIT"},
		Catalog:  testCatalog(t),
		Provider: provider,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Passed {
		t.Errorf("expected compliant result, violations: %v", result.Violations)
	}
	if len(result.Violations) != 0 {
		t.Errorf("expected no violations, got %v", result.Violations)
	}
}

func TestRunLookupFailureBecomesUnknownViolation(t *testing.T) {
	result, err := Run(context.Background(), Options{
		Target:   fixtureProject(t),
		Allow:    []string{"MIT"},
		Catalog:  testCatalog(t),
		Provider: failingProvider{},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Passed {
		t.Error("unknown licenses must fail compliance")
	}
	for _, v := range result.Violations {
		if v.License != lookup.UnknownLicense {
			t.Errorf("violation license = %q, want %q", v.License, lookup.UnknownLicense)
		}
	}
}

func TestRunViolationsSortedByName(t *testing.T) {
	provider := lookup.NewStaticProvider(map[string]string{}) // everything Unknown

	result, err := Run(context.Background(), Options{
		Target:   fixtureProject(t),
		Allow:    []string{"MIT"},
		Catalog:  testCatalog(t),
		Provider: provider,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", result.Violations)
	}
	if result.Violations[0].Name != "pkga" || result.Violations[1].Name != "pkgb" {
		t.Errorf("violations not in sorted name order: %v", result.Violations)
	}
}

func TestRunPolicyDenials(t *testing.T) {
	provider := lookup.NewStaticProvider(map[string]string{
		"pkga": "GPL-3.0",
		"pkgb": "MIT",
	})
	pol := &policy.Policy{}
	pol.Licenses.Forbidden = []string{"GPL-3.0"}

	result, err := Run(context.Background(), Options{
		Target:   fixtureProject(t),
		Allow:    []string{"MIT", "GPL-3.0"}, // allowed, but forbidden by policy
		Catalog:  testCatalog(t),
		Provider: provider,
		Policy:   pol,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Violations) != 0 {
		t.Errorf("allow-list violations unexpected: %v", result.Violations)
	}
	if len(result.PolicyDenials) != 1 {
		t.Fatalf("expected 1 policy denial, got %v", result.PolicyDenials)
	}
	if result.Passed {
		t.Error("policy denial must fail the run")
	}
}

func TestRunRequiresCatalogAndProvider(t *testing.T) {
	if _, err := Run(context.Background(), Options{Target: ".", Provider: failingProvider{}}); err == nil {
		t.Error("expected error without catalog")
	}
	if _, err := Run(context.Background(), Options{Target: ".", Catalog: testCatalog(t)}); err == nil {
		t.Error("expected error without provider")
	}
}

type failingProvider struct{}

func (failingProvider) LicenseFor(context.Context, string) (string, error) {
	return "", errors.New("registry unreachable")
}
