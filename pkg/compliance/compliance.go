// Package compliance checks resolved dependency licenses against an
// allow-list. There is no warning state: a run is compliant iff the
// violation list is empty.
package compliance

import "strings"

// Resolution pairs a dependency with its resolved canonical license id
// (or the raw license string when resolution failed).
type Resolution struct {
	Name    string `json:"name"`
	License string `json:"license"`
}

// Violation is a dependency whose resolved license id is not in the
// allow-list.
type Violation struct {
	Name    string `json:"name"`
	License string `json:"license"`
}

// Evaluate returns the violations among resolved, preserving the order
// resolutions were given in. Comparison against the allow-list is
// case-insensitive.
func Evaluate(resolved []Resolution, allow []string) []Violation {
	allowed := make(map[string]struct{}, len(allow))
	for _, id := range allow {
		allowed[strings.ToLower(id)] = struct{}{}
	}

	var violations []Violation
	for _, r := range resolved {
		if _, ok := allowed[strings.ToLower(r.License)]; !ok {
			violations = append(violations, Violation{Name: r.Name, License: r.License})
		}
	}
	return violations
}
