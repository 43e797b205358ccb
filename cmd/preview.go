/*
Copyright © 2026 ADHD Framework Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adhd-framework/uvmigrate/internal/migrate"
	"github.com/adhd-framework/uvmigrate/internal/ops"
	"github.com/adhd-framework/uvmigrate/pkg/config"
	"github.com/adhd-framework/uvmigrate/pkg/exitcode"
)

// previewCmd prints the manifest a migration would write, nothing else.
var previewCmd = &cobra.Command{
	Use:   "preview <module>",
	Short: "Print the pyproject.toml a migration would generate",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	if err := ops.RegisterCommand("preview", ops.GroupWorkflow, previewCmd, "Print the pyproject.toml a migration would generate"); err != nil {
		panic(fmt.Sprintf("failed to register preview command: %v", err))
	}

	previewCmd.Flags().String("root", ".", "Workspace root to scan")
}

func runPreview(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load()
	if err != nil {
		return exitWith(exitcode.ConfigError, err)
	}
	orch, err := migrate.New(root, cfg)
	if err != nil {
		return exitWith(exitcode.FileSystemError, err)
	}

	content, err := orch.Preview(args[0])
	if err != nil {
		return exitWith(exitcode.GeneralError, fmt.Errorf("%s: %w", args[0], err))
	}

	fmt.Fprint(cmd.OutOrStdout(), content)
	return nil
}
