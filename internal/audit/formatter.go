package audit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	"github.com/beevik/etree"
	"github.com/mattn/go-runewidth"
)

// OutputFormat represents the format for audit report output
type OutputFormat string

const (
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatJUnit    OutputFormat = "junit"
	// Concise is a short, aligned summary ideal for terminal and hook logs
	FormatConcise OutputFormat = "concise"
)

// Formatter renders audit results.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a formatter for the given output format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// Format renders the result in the formatter's output format.
func (f *Formatter) Format(result *Result) (string, error) {
	switch f.format {
	case FormatJSON:
		return f.formatJSON(result)
	case FormatMarkdown:
		return f.formatMarkdown(result)
	case FormatJUnit:
		return f.formatJUnit(result)
	case FormatConcise:
		return f.formatConcise(result), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) formatJSON(result *Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data) + "\n", nil
}

const markdownTemplate = `# License Compliance Report

**Target:** {{target}}
**Generated:** {{generated}}
**Dependencies:** {{depCount}}
**Allow-list:** {{allowList}}
**Status:** {{status}}

{{#if violations}}
## Violations

| Package | License |
|---------|---------|
{{#each violations}}| {{name}} | {{license}} |
{{/each}}
{{else}}
All dependency licenses are allowed.
{{/if}}
{{#if denials}}
## Policy Denials

{{#each denials}}- {{this}}
{{/each}}
{{/if}}`

func (f *Formatter) formatMarkdown(result *Result) (string, error) {
	violations := make([]map[string]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		violations = append(violations, map[string]string{
			"name":    v.Name,
			"license": v.License,
		})
	}

	status := "NON-COMPLIANT ❌"
	if result.Passed {
		status = "COMPLIANT ✅"
	}

	data := map[string]interface{}{
		"target":     result.Target,
		"generated":  time.Now().Format(time.RFC3339),
		"depCount":   len(result.Resolved),
		"allowList":  strings.Join(result.AllowList, ", "),
		"status":     status,
		"violations": violations,
		"denials":    result.PolicyDenials,
	}

	out, err := raymond.Render(markdownTemplate, data)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown report: %w", err)
	}
	return out, nil
}

// formatJUnit emits one testcase per dependency so CI systems can show
// exactly which package failed compliance.
func (f *Formatter) formatJUnit(result *Result) (string, error) {
	violating := make(map[string]string, len(result.Violations))
	for _, v := range result.Violations {
		violating[v.Name] = v.License
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suite := doc.CreateElement("testsuite")
	suite.CreateAttr("name", "licomply")
	suite.CreateAttr("tests", strconv.Itoa(len(result.Resolved)))
	suite.CreateAttr("failures", strconv.Itoa(len(result.Violations)))
	suite.CreateAttr("time", fmt.Sprintf("%.3f", result.Duration.Seconds()))

	for _, r := range result.Resolved {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", "license-compliance")
		tc.CreateAttr("name", r.Name)
		if license, ok := violating[r.Name]; ok {
			failure := tc.CreateElement("failure")
			failure.CreateAttr("type", "LicenseViolation")
			failure.CreateAttr("message",
				fmt.Sprintf("license %q is not in the allow-list", license))
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize JUnit report: %w", err)
	}
	return out, nil
}

func (f *Formatter) formatConcise(result *Result) string {
	var builder strings.Builder

	nameWidth := len("PACKAGE")
	licenseWidth := len("LICENSE")
	for _, r := range result.Resolved {
		if w := runewidth.StringWidth(r.Name); w > nameWidth {
			nameWidth = w
		}
		if w := runewidth.StringWidth(r.License); w > licenseWidth {
			licenseWidth = w
		}
	}

	violating := make(map[string]bool, len(result.Violations))
	for _, v := range result.Violations {
		violating[v.Name] = true
	}

	builder.WriteString(runewidth.FillRight("PACKAGE", nameWidth+2))
	builder.WriteString(runewidth.FillRight("LICENSE", licenseWidth+2))
	builder.WriteString("STATUS\n")
	for _, r := range result.Resolved {
		builder.WriteString(runewidth.FillRight(r.Name, nameWidth+2))
		builder.WriteString(runewidth.FillRight(r.License, licenseWidth+2))
		if violating[r.Name] {
			builder.WriteString("VIOLATION\n")
		} else {
			builder.WriteString("ok\n")
		}
	}

	for _, denial := range result.PolicyDenials {
		builder.WriteString("policy: " + denial + "\n")
	}

	if result.Passed {
		builder.WriteString(fmt.Sprintf("\n✅ %d dependencies compliant (%.2fs)\n",
			len(result.Resolved), result.Duration.Seconds()))
	} else {
		builder.WriteString(fmt.Sprintf("\n❌ %d of %d dependencies non-compliant\n",
			len(result.Violations), len(result.Resolved)))
	}
	return builder.String()
}
