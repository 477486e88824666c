package policy

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/fulmenhq/licomply/pkg/compliance"
)

// Engine evaluates resolved dependencies against the forbidden-license
// rules of a policy.
type Engine interface {
	Evaluate(ctx context.Context, resolved []compliance.Resolution) ([]string, error)
}

// OPAEngine implements Engine on embedded OPA.
type OPAEngine struct {
	regoCode string
}

// NewOPAEngine compiles the policy's forbidden rules to Rego.
func NewOPAEngine(pol *Policy) *OPAEngine {
	return &OPAEngine{regoCode: transpileToRego(pol)}
}

// Evaluate returns one deny message per dependency that matches a
// forbidden license. An empty policy denies nothing.
func (e *OPAEngine) Evaluate(ctx context.Context, resolved []compliance.Resolution) ([]string, error) {
	if e.regoCode == "" {
		return nil, nil
	}

	input := map[string]interface{}{
		"dependencies": resolutionInput(resolved),
	}

	rs, err := rego.New(
		rego.Query("data.licomply.deny"),
		rego.Input(input),
		rego.Module("policy.rego", e.regoCode),
	).Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}

	var denials []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			values, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, v := range values {
				if msg, ok := v.(string); ok {
					denials = append(denials, msg)
				}
			}
		}
	}
	return denials, nil
}

func resolutionInput(resolved []compliance.Resolution) []map[string]interface{} {
	deps := make([]map[string]interface{}, 0, len(resolved))
	for _, r := range resolved {
		deps = append(deps, map[string]interface{}{
			"name":    r.Name,
			"license": r.License,
		})
	}
	return deps
}

// transpileToRego converts a policy's forbidden-license rules to a Rego
// module with a single deny rule. Matching is case-insensitive, same as
// allow-list evaluation: both sides are lowercased.
func transpileToRego(pol *Policy) string {
	if pol == nil || len(pol.Licenses.Forbidden) == 0 {
		return ""
	}

	forbidden := make([]string, 0, len(pol.Licenses.Forbidden))
	for _, id := range pol.Licenses.Forbidden {
		forbidden = append(forbidden, strings.ToLower(id))
	}

	var buf bytes.Buffer
	buf.WriteString("package licomply\n\n")
	buf.WriteString("deny contains msg if {\n")
	buf.WriteString("  dep := input.dependencies[_]\n")
	buf.WriteString("  forbidden := ")
	buf.WriteString(formatRegoArray(forbidden))
	buf.WriteString("\n")
	buf.WriteString("  forbidden[_] == lower(dep.license)\n")
	buf.WriteString("  msg := sprintf(\"Package %s uses forbidden license: %s\", [dep.name, dep.license])\n")
	buf.WriteString("}\n")
	return buf.String()
}

// formatRegoArray converts license ids to a quoted Rego array
// e.g. [GPL-3.0, AGPL-3.0] -> ["GPL-3.0", "AGPL-3.0"]
func formatRegoArray(ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%q", id))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
