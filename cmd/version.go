/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/licomply/pkg/buildinfo"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show extended build information")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	out := cmd.OutOrStdout()

	if _, err := fmt.Fprintf(out, "licomply %s\n", buildinfo.BinaryVersion); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !extended {
		return nil
	}

	if mv := buildinfo.ModuleVersion(); mv != "" {
		if _, err := fmt.Fprintf(out, "module version: %s\n", mv); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "go version: %s\n", runtime.Version()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
