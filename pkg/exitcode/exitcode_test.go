package exitcode

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{FileSystemError, "File system error"},
		{NetworkError, "Network error"},
		{42, "Unknown error"},
	}

	for _, tt := range tests {
		if got := String(tt.code); got != tt.expected {
			t.Errorf("String(%d) = %q, want %q", tt.code, got, tt.expected)
		}
	}
}

func TestNonCompliantIsOne(t *testing.T) {
	if NonCompliant != 1 {
		t.Fatalf("NonCompliant = %d, want 1", NonCompliant)
	}
}
