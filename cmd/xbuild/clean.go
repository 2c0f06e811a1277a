package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newCleanCmd builds "clean", which bypasses the rule catalog entirely:
// it never loads configuration, never populates a registry, and never
// touches the planner/expander/runner. It just removes the build output
// directory.
func newCleanCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build output directory without touching the rule catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = "build"
			}
			if err := os.RemoveAll(outDir); err != nil {
				return fmt.Errorf("clean: remove %s: %w", outDir, err)
			}
			fmt.Fprintf(os.Stdout, "removed %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "build", "Build output directory to remove")
	return cmd
}
