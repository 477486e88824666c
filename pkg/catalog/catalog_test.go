package catalog

import (
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"MIT", "mit"},
		{"MIT License", "mit"},
		{"Apache License 2.0", "apache 2.0"},
		{"Apache-2.0", "apache 2.0"},
		{"Apache Software License, Version 2.0", "apache software 2.0"},
		{"GNU General Public License v3.0", "gnu general public v3.0"},
		{"BSD_3_Clause", "bsd 3 clause"},
		{"MPL/GPL", "mpl gpl"},
		{"GPL-2.0 with Classpath exception", "gpl 2.0"},
		{"GPL-2.0 with GCC Runtime Library exception", "gpl 2.0"},
		{"  MIT   License  ", "mit"},
		// "v" and "version" must only be stripped as whole words
		{"Velocity License", "velocity"},
		{"Inversion", "inversion"},
	}

	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.expected {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

const spdxSample = `{
  "licenseListVersion": "3.24",
  "licenses": [
    {"licenseId": "MIT", "name": "MIT License"},
    {"licenseId": "Apache-2.0", "name": "Apache License 2.0"},
    {"licenseId": "GPL-3.0", "name": "GNU General Public License v3.0"},
    {"licenseId": "BSD-3-Clause", "name": "BSD 3-Clause \"New\" or \"Revised\" License"}
  ]
}`

func TestFromSPDX(t *testing.T) {
	cat, err := FromSPDX([]byte(spdxSample))
	if err != nil {
		t.Fatalf("FromSPDX failed: %v", err)
	}

	tests := []struct {
		key string
		id  string
	}{
		{"mit", "MIT"},
		{"apache 2.0", "Apache-2.0"},
		{"gnu general public v3.0", "GPL-3.0"},
		{"bsd 3 clause", "BSD-3-Clause"},
	}
	for _, tt := range tests {
		id, ok := cat.Lookup(tt.key)
		if !ok {
			t.Errorf("Lookup(%q): missing key", tt.key)
			continue
		}
		if id != tt.id {
			t.Errorf("Lookup(%q) = %q, want %q", tt.key, id, tt.id)
		}
	}
}

func TestFromSPDXPreservesOrder(t *testing.T) {
	cat, err := FromSPDX([]byte(spdxSample))
	if err != nil {
		t.Fatalf("FromSPDX failed: %v", err)
	}

	entries := cat.Entries()
	if len(entries) == 0 {
		t.Fatal("no entries")
	}
	if entries[0].ID != "MIT" {
		t.Errorf("first entry id = %q, want MIT (document order)", entries[0].ID)
	}
}

func TestFromSPDXFirstKeyWins(t *testing.T) {
	// Duplicate folded keys must keep the first-seen mapping
	doc := `{"licenses": [
		{"licenseId": "GPL-3.0", "name": "GNU General Public License v3.0"},
		{"licenseId": "GPL-3.0-only", "name": "GNU General Public License v3.0"}
	]}`
	cat, err := FromSPDX([]byte(doc))
	if err != nil {
		t.Fatalf("FromSPDX failed: %v", err)
	}
	id, ok := cat.Lookup("gnu general public v3.0")
	if !ok || id != "GPL-3.0" {
		t.Errorf("duplicate key resolved to %q, want GPL-3.0", id)
	}
}

func TestFromSPDXRejectsEmpty(t *testing.T) {
	if _, err := FromSPDX([]byte(`{"licenses": []}`)); err == nil {
		t.Error("expected error for empty license list")
	}
	if _, err := FromSPDX([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}
