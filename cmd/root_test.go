package cmd

import (
	"bytes"
	"strings"
	"testing"
)

// helper to run a fresh command tree with args and capture output
func execRoot(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	// Reduce log noise to capture clean command output
	full := append([]string{"--log-level", "error"}, args...)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execRoot(t, []string{"--help"})
	if err != nil {
		t.Fatalf("--help failed: %v\n%s", err, out)
	}
	for _, want := range []string{"licomply", "check", "catalog", "version"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestRootVersionFlag(t *testing.T) {
	out, err := execRoot(t, []string{"--version"})
	if err != nil {
		t.Fatalf("--version failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "licomply ") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestRootUnknownCommand(t *testing.T) {
	if _, err := execRoot(t, []string{"frobnicate"}); err == nil {
		t.Error("expected error for unknown command")
	}
}
