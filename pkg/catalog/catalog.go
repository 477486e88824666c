// Package catalog holds the canonical SPDX license taxonomy used for
// license-name resolution. A catalog maps folded (normalized) license names
// to canonical SPDX identifiers and is immutable once loaded.
package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Entry is one normalized-name → canonical-id mapping. Entries preserve
// SPDX document order so fuzzy-match tie-breaks are first-seen deterministic.
type Entry struct {
	Key string
	ID  string
}

// Catalog is an insertion-ordered mapping from folded license name to
// canonical SPDX identifier. Read-only after load.
type Catalog struct {
	entries []Entry
	index   map[string]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]string)}
}

// add registers a key → id mapping. The first mapping for a key wins.
func (c *Catalog) add(key, id string) {
	if key == "" {
		return
	}
	if _, exists := c.index[key]; exists {
		return
	}
	c.index[key] = id
	c.entries = append(c.entries, Entry{Key: key, ID: id})
}

// Lookup returns the canonical id for an exact folded key.
func (c *Catalog) Lookup(key string) (string, bool) {
	id, ok := c.index[key]
	return id, ok
}

// Entries returns the catalog entries in insertion order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of distinct keys.
func (c *Catalog) Len() int {
	return len(c.entries)
}

var (
	exceptionClause = regexp.MustCompile(`\bwith\b.*\bexception\b\s*$`)
	stopWords       = regexp.MustCompile(`\b(license|version|v|with)\b`)
	punctuation     = strings.NewReplacer(",", " ", "/", " ", "-", " ", "_", " ")
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Fold normalizes a free-text license name into catalog-key form:
// lowercased, any trailing "with … exception" clause discarded, the
// standalone words "license", "version", "v" and "with" removed,
// commas/slashes/hyphens/underscores mapped to spaces, and whitespace
// collapsed. Exception qualifiers are intentionally lost; the base
// license is the canonical result.
func Fold(name string) string {
	s := strings.ToLower(name)
	s = exceptionClause.ReplaceAllString(s, "")
	s = stopWords.ReplaceAllString(s, " ")
	s = punctuation.Replace(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// spdxDocument mirrors the SPDX license-list-data JSON layout.
type spdxDocument struct {
	Version  string `json:"licenseListVersion"`
	Licenses []struct {
		LicenseID string `json:"licenseId"`
		Name      string `json:"name"`
	} `json:"licenses"`
}

// FromSPDX parses an SPDX licenses.json document into a catalog. Each
// license contributes two keys: its folded identifier and its folded
// display name, both mapping to the canonical identifier.
func FromSPDX(data []byte) (*Catalog, error) {
	var doc spdxDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse SPDX license list: %w", err)
	}
	if len(doc.Licenses) == 0 {
		return nil, fmt.Errorf("SPDX license list contains no licenses")
	}

	c := New()
	for _, lic := range doc.Licenses {
		if lic.LicenseID == "" {
			continue
		}
		c.add(Fold(lic.LicenseID), lic.LicenseID)
		c.add(Fold(lic.Name), lic.LicenseID)
	}
	return c, nil
}
