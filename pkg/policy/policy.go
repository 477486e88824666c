// Package policy loads and evaluates the optional licomply policy file.
// A policy can pin the allow-list and add hard license denials that are
// evaluated through an embedded OPA engine.
package policy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Policy is the parsed policy document.
type Policy struct {
	Licenses LicenseRules `yaml:"licenses" json:"licenses"`
}

// LicenseRules holds the license allow/deny configuration.
type LicenseRules struct {
	Allowed   []string `yaml:"allowed" json:"allowed,omitempty"`
	Forbidden []string `yaml:"forbidden" json:"forbidden,omitempty"`
}

// policySchema validates the shape of a policy document before use.
const policySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "licenses": {
      "type": "object",
      "properties": {
        "allowed": {"type": "array", "items": {"type": "string"}},
        "forbidden": {"type": "array", "items": {"type": "string"}}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// Load reads and validates the policy file at path. A missing file means
// no policy: (nil, nil). An unreadable or invalid policy is an error; a
// policy that exists but cannot be trusted must stop the run.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied policy path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	// gojsonschema speaks JSON; round-trip the YAML document through it
	jsonDoc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert policy to JSON: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(policySchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return nil, fmt.Errorf("policy schema validation failed: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, fmt.Errorf("invalid policy file %s: %s", path, first.String())
	}

	var pol Policy
	if err := yaml.Unmarshal(data, &pol); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	return &pol, nil
}
