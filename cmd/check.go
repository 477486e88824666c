/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/licomply/internal/audit"
	"github.com/fulmenhq/licomply/pkg/catalog"
	"github.com/fulmenhq/licomply/pkg/config"
	"github.com/fulmenhq/licomply/pkg/exitcode"
	"github.com/fulmenhq/licomply/pkg/logger"
	"github.com/fulmenhq/licomply/pkg/lookup"
	"github.com/fulmenhq/licomply/pkg/policy"
)

// providerFactory builds the license-lookup provider for a run. Tests
// swap it for a static provider so checks run offline.
var providerFactory = func(cfg *config.Config) (lookup.Provider, error) {
	switch cfg.Lookup.Provider {
	case "static":
		return lookup.NewStaticProviderFromFile(cfg.Lookup.LicensesFile)
	case "", "pypi":
		return lookup.NewPyPIProvider(cfg.Lookup.TTL, cfg.Lookup.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown lookup provider: %s", cfg.Lookup.Provider)
	}
}

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [allow-list]",
		Short: "Audit a Python project's dependency licenses",
		Long: `Check aggregates the target project's dependencies from source imports,
*requirement*.txt files, pyproject.toml and poetry.lock, resolves each
package's license to a canonical SPDX identifier, and evaluates the
result against the allow-list.

The optional positional argument is a comma-separated allow-list
(e.g. "MIT,Apache-2.0,BSD-3-Clause"). When omitted, the allow-list
comes from .licomply.yaml or the built-in defaults.

Exit code is 0 when every dependency's license is allowed, 1 otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}

	addReportFlags(cmd.Flags())
	cmd.Flags().String("target", "", "Project directory to audit (defaults to config or cwd)")
	cmd.Flags().String("policy", "", "Path to a policy file (defaults to config)")
	cmd.Flags().String("catalog-url", "", "Override the SPDX license list URL")
	cmd.Flags().String("cache", "", "Override the SPDX license list cache path")

	return cmd
}

// addReportFlags registers the output flags shared by commands that
// render reports.
func addReportFlags(flags *pflag.FlagSet) {
	flags.String("format", "", "Report format (json|markdown|junit|concise)")
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyCheckFlags(cmd, cfg)

	pol, err := policy.Load(cfg.Policy)
	if err != nil {
		return fmt.Errorf("invalid policy file %s: %w", cfg.Policy, err)
	}

	// Allow-list precedence: positional argument, then policy file, then
	// config/defaults.
	allow := cfg.Allow
	if pol != nil && len(pol.Licenses.Allowed) > 0 {
		allow = pol.Licenses.Allowed
	}
	if len(args) == 1 {
		allow = config.ParseAllowList(args[0])
	}

	// An unavailable taxonomy is fatal and must exit 1, same as any
	// other setup failure.
	fetcher := catalog.NewRealHTTPFetcher(catalog.DefaultHTTPClient(cfg.Lookup.Timeout))
	cat, err := catalog.FetchOrLoad(cmd.Context(), cfg.Catalog.CachePath, cfg.Catalog.URL, fetcher)
	if err != nil {
		return fmt.Errorf("failed to load SPDX license taxonomy: %w", err)
	}

	provider, err := providerFactory(cfg)
	if err != nil {
		return err
	}

	result, err := audit.Run(cmd.Context(), audit.Options{
		Target:   cfg.Target,
		Allow:    allow,
		Catalog:  cat,
		Provider: provider,
		Policy:   pol,
	})
	if err != nil {
		return err
	}

	if err := writeReport(cmd, cfg, result); err != nil {
		return err
	}

	if !result.Passed {
		os.Exit(exitcode.NonCompliant)
	}
	return nil
}

// applyCheckFlags overlays explicitly-set command flags onto the loaded
// configuration. Flags win over config file and environment.
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("target"); v != "" {
		cfg.Target = v
	}
	if v, _ := cmd.Flags().GetString("policy"); v != "" {
		cfg.Policy = v
	}
	if v, _ := cmd.Flags().GetString("catalog-url"); v != "" {
		cfg.Catalog.URL = v
	}
	if v, _ := cmd.Flags().GetString("cache"); v != "" {
		cfg.Catalog.CachePath = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Report.Format = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Report.Output = v
	}
}

func writeReport(cmd *cobra.Command, cfg *config.Config, result *audit.Result) error {
	formatter := audit.NewFormatter(audit.OutputFormat(cfg.Report.Format))
	report, err := formatter.Format(result)
	if err != nil {
		return err
	}

	if cfg.Report.Output != "" {
		if err := os.WriteFile(cfg.Report.Output, []byte(report), 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", cfg.Report.Output, err)
		}
		logger.Info("Report written", logger.String("path", cfg.Report.Output))
		return nil
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), report)
	return err
}
