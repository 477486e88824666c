/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/licomply/pkg/catalog"
	"github.com/fulmenhq/licomply/pkg/config"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the SPDX license taxonomy",
		Long: `Catalog displays the normalization taxonomy built from the SPDX license
list: each folded spelling key and the canonical identifier it maps to.

Useful for understanding why a raw license string resolved (or failed
to resolve) to a given SPDX id.`,
		RunE: runCatalog,
	}

	cmd.Flags().Bool("json", false, "Output taxonomy entries in JSON format")
	cmd.Flags().String("filter", "", "Only show entries whose key or id contains this substring")
	cmd.Flags().Int("limit", 0, "Maximum number of entries to show (0 = all)")
	cmd.Flags().String("catalog-url", "", "Override the SPDX license list URL")
	cmd.Flags().String("cache", "", "Override the SPDX license list cache path")

	return cmd
}

// catalogEntry is the JSON shape for a single taxonomy entry.
type catalogEntry struct {
	Key string `json:"key"`
	ID  string `json:"id"`
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("catalog-url"); v != "" {
		cfg.Catalog.URL = v
	}
	if v, _ := cmd.Flags().GetString("cache"); v != "" {
		cfg.Catalog.CachePath = v
	}

	fetcher := catalog.NewRealHTTPFetcher(catalog.DefaultHTTPClient(cfg.Lookup.Timeout))
	cat, err := catalog.FetchOrLoad(cmd.Context(), cfg.Catalog.CachePath, cfg.Catalog.URL, fetcher)
	if err != nil {
		return fmt.Errorf("failed to load SPDX license taxonomy: %w", err)
	}

	filter, _ := cmd.Flags().GetString("filter")
	limit, _ := cmd.Flags().GetInt("limit")

	entries := []catalogEntry{}
	for _, e := range cat.Entries() {
		if filter != "" &&
			!strings.Contains(strings.ToLower(e.Key), strings.ToLower(filter)) &&
			!strings.Contains(strings.ToLower(e.ID), strings.ToLower(filter)) {
			continue
		}
		entries = append(entries, catalogEntry{Key: e.Key, ID: e.ID})
		if limit > 0 && len(entries) >= limit {
			break
		}
	}

	if jsonFormat, _ := cmd.Flags().GetBool("json"); jsonFormat {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "%-40s -> %s\n", e.Key, e.ID); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "\n%d taxonomy entries\n", len(entries)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
