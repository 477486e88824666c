// Package audit orchestrates a compliance run: collect dependencies,
// look up raw license text, resolve to canonical identifiers, and
// evaluate against the allow-list. The phases run strictly in order.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/fulmenhq/licomply/pkg/catalog"
	"github.com/fulmenhq/licomply/pkg/collector"
	"github.com/fulmenhq/licomply/pkg/compliance"
	"github.com/fulmenhq/licomply/pkg/logger"
	"github.com/fulmenhq/licomply/pkg/lookup"
	"github.com/fulmenhq/licomply/pkg/policy"
	"github.com/fulmenhq/licomply/pkg/resolver"
)

// Options configures a single audit run. Catalog and Provider are
// required; Policy is optional.
type Options struct {
	Target   string
	Allow    []string
	Catalog  *catalog.Catalog
	Provider lookup.Provider
	Policy   *policy.Policy
}

// Result holds the outcome of an audit run.
type Result struct {
	Target        string                  `json:"target"`
	AllowList     []string                `json:"allow_list"`
	Resolved      []compliance.Resolution `json:"resolved"`
	Violations    []compliance.Violation  `json:"violations"`
	PolicyDenials []string                `json:"policy_denials,omitempty"`
	Passed        bool                    `json:"passed"`
	Duration      time.Duration           `json:"duration"`
}

// Run executes the pipeline against opts.Target. Dependencies are
// resolved in sorted name order so violation ordering is deterministic.
// A lookup failure for a single dependency is not fatal: the dependency
// resolves as Unknown and surfaces through evaluation.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Catalog == nil {
		return nil, errors.New("audit requires a loaded license catalog")
	}
	if opts.Provider == nil {
		return nil, errors.New("audit requires a license-lookup provider")
	}

	start := time.Now()

	deps, err := collector.Aggregate(opts.Target)
	if err != nil {
		return nil, err
	}
	logger.Info("Collected dependencies", logger.Int("count", len(deps)))

	resolved := make([]compliance.Resolution, 0, len(deps))
	for _, name := range deps.Sorted() {
		raw, err := opts.Provider.LicenseFor(ctx, name)
		if err != nil {
			logger.Warn("License lookup failed",
				logger.String("package", name), logger.Err(err))
			raw = lookup.UnknownLicense
		}
		resolved = append(resolved, compliance.Resolution{
			Name:    name,
			License: resolver.Normalize(raw, opts.Catalog),
		})
	}

	violations := compliance.Evaluate(resolved, opts.Allow)

	var denials []string
	if opts.Policy != nil {
		engine := policy.NewOPAEngine(opts.Policy)
		denials, err = engine.Evaluate(ctx, resolved)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		Target:        opts.Target,
		AllowList:     opts.Allow,
		Resolved:      resolved,
		Violations:    violations,
		PolicyDenials: denials,
		Passed:        len(violations) == 0 && len(denials) == 0,
		Duration:      time.Since(start),
	}
	if result.Violations == nil {
		result.Violations = []compliance.Violation{}
	}

	logger.Info("Audit complete",
		logger.Int("dependencies", len(resolved)),
		logger.Int("violations", len(violations)),
		logger.Bool("passed", result.Passed))
	return result, nil
}
