package audit

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/fulmenhq/licomply/pkg/compliance"
)

func sampleResult() *Result {
	return &Result{
		Target:    "/tmp/project",
		AllowList: []string{"MIT", "Apache-2.0"},
		Resolved: []compliance.Resolution{
			{Name: "pkga", License: "MIT"},
			{Name: "pkgb", License: "GPL-3.0"},
		},
		Violations: []compliance.Violation{
			{Name: "pkgb", License: "GPL-3.0"},
		},
		Passed:   false,
		Duration: 1500 * time.Millisecond,
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := NewFormatter(FormatJSON).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Target != "/tmp/project" {
		t.Errorf("target = %q", decoded.Target)
	}
	if len(decoded.Violations) != 1 || decoded.Violations[0].Name != "pkgb" {
		t.Errorf("violations = %v", decoded.Violations)
	}
	if decoded.Passed {
		t.Error("passed should survive round-trip as false")
	}
}

func TestFormatMarkdown(t *testing.T) {
	out, err := NewFormatter(FormatMarkdown).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"# License Compliance Report",
		"NON-COMPLIANT",
		"| pkgb | GPL-3.0 |",
		"MIT, Apache-2.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMarkdownCompliant(t *testing.T) {
	result := sampleResult()
	result.Violations = []compliance.Violation{}
	result.Passed = true

	out, err := NewFormatter(FormatMarkdown).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "COMPLIANT") {
		t.Errorf("missing status:\n%s", out)
	}
	if !strings.Contains(out, "All dependency licenses are allowed.") {
		t.Errorf("missing compliant message:\n%s", out)
	}
	if strings.Contains(out, "## Violations") {
		t.Errorf("compliant report should not list violations:\n%s", out)
	}
}

func TestFormatJUnit(t *testing.T) {
	out, err := NewFormatter(FormatJUnit).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	suite := doc.SelectElement("testsuite")
	if suite == nil {
		t.Fatal("missing testsuite element")
	}
	if got := suite.SelectAttrValue("tests", ""); got != "2" {
		t.Errorf("tests = %q, want 2", got)
	}
	if got := suite.SelectAttrValue("failures", ""); got != "1" {
		t.Errorf("failures = %q, want 1", got)
	}

	cases := suite.SelectElements("testcase")
	if len(cases) != 2 {
		t.Fatalf("expected 2 testcases, got %d", len(cases))
	}
	var failed int
	for _, tc := range cases {
		if tc.SelectElement("failure") != nil {
			failed++
			if name := tc.SelectAttrValue("name", ""); name != "pkgb" {
				t.Errorf("failing testcase = %q, want pkgb", name)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure element, got %d", failed)
	}
}

func TestFormatConcise(t *testing.T) {
	out, err := NewFormatter(FormatConcise).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "PACKAGE") {
		t.Errorf("missing header: %q", lines[0])
	}
	if !strings.Contains(out, "VIOLATION") {
		t.Errorf("missing violation marker:\n%s", out)
	}
	if !strings.Contains(out, "❌ 1 of 2 dependencies non-compliant") {
		t.Errorf("missing summary line:\n%s", out)
	}

	// The STATUS column should start at the same offset on every row.
	statusCol := strings.Index(lines[0], "STATUS")
	if got := strings.Index(lines[1], "MIT"); got < 0 || got > statusCol {
		t.Errorf("license column misaligned: %q", lines[1])
	}
}

func TestFormatConciseCompliant(t *testing.T) {
	result := sampleResult()
	result.Violations = []compliance.Violation{}
	result.Passed = true

	out, err := NewFormatter(FormatConcise).Format(result)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(out, "✅ 2 dependencies compliant") {
		t.Errorf("missing compliant summary:\n%s", out)
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, err := NewFormatter("html").Format(sampleResult()); err == nil {
		t.Error("expected error for unsupported format")
	}
}
