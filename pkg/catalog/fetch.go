package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/licomply/pkg/logger"
)

// FetchOrLoad returns the catalog from the on-disk cache at cachePath when
// present, otherwise downloads the SPDX license list from url, persists it
// to cachePath, and parses it. Any failure here is fatal to the run: the
// taxonomy is a hard prerequisite for resolution.
func FetchOrLoad(ctx context.Context, cachePath, url string, fetcher HTTPFetcher) (*Catalog, error) {
	if data, err := os.ReadFile(cachePath); err == nil {
		logger.Debug("Using cached SPDX license list", logger.String("path", cachePath))
		return FromSPDX(data)
	}

	logger.Info("Downloading SPDX license list", logger.String("url", url))
	resp, err := fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch SPDX license list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("SPDX license list fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read SPDX license list: %w", err)
	}

	cat, err := FromSPDX(data)
	if err != nil {
		return nil, err
	}

	// Cache write failures are not fatal; the catalog is already in memory
	if mkErr := os.MkdirAll(filepath.Dir(cachePath), 0o750); mkErr == nil {
		if writeErr := os.WriteFile(cachePath, data, 0o600); writeErr != nil {
			logger.Warn("Failed to cache SPDX license list", logger.Err(writeErr))
		}
	}

	logger.Info("SPDX license list loaded", logger.Int("keys", cat.Len()))
	return cat, nil
}
