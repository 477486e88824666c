package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const fetchURL = "https://example.com/licenses.json"

func TestFetchOrLoadDownloadsAndCaches(t *testing.T) {
	tmp := t.TempDir()
	cachePath := filepath.Join(tmp, "spdx", "licenses.json")

	fetcher := NewMockHTTPFetcher()
	fetcher.AddResponse(fetchURL, 200, spdxSample)

	cat, err := FetchOrLoad(context.Background(), cachePath, fetchURL, fetcher)
	if err != nil {
		t.Fatalf("FetchOrLoad failed: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatal("empty catalog")
	}

	// The document must now be cached on disk
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	// A second load must not hit the network at all
	offline := NewMockHTTPFetcher()
	offline.AddError(fetchURL, errors.New("network down"))
	cat2, err := FetchOrLoad(context.Background(), cachePath, fetchURL, offline)
	if err != nil {
		t.Fatalf("cached FetchOrLoad failed: %v", err)
	}
	if cat2.Len() != cat.Len() {
		t.Errorf("cached catalog has %d keys, fresh had %d", cat2.Len(), cat.Len())
	}
}

func TestFetchOrLoadFetchErrorIsFatal(t *testing.T) {
	tmp := t.TempDir()
	fetcher := NewMockHTTPFetcher()
	fetcher.AddError(fetchURL, errors.New("connection refused"))

	if _, err := FetchOrLoad(context.Background(), filepath.Join(tmp, "licenses.json"), fetchURL, fetcher); err == nil {
		t.Error("expected error when fetch fails")
	}
}

func TestFetchOrLoadBadStatusIsFatal(t *testing.T) {
	tmp := t.TempDir()
	fetcher := NewMockHTTPFetcher()
	fetcher.AddResponse(fetchURL, 500, "oops")

	if _, err := FetchOrLoad(context.Background(), filepath.Join(tmp, "licenses.json"), fetchURL, fetcher); err == nil {
		t.Error("expected error on HTTP 500")
	}
}
