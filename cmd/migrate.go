/*
Copyright © 2026 ADHD Framework Authors
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adhd-framework/uvmigrate/internal/migrate"
	"github.com/adhd-framework/uvmigrate/internal/ops"
	"github.com/adhd-framework/uvmigrate/pkg/config"
	"github.com/adhd-framework/uvmigrate/pkg/exitcode"
	"github.com/adhd-framework/uvmigrate/pkg/logger"
	"github.com/adhd-framework/uvmigrate/pkg/safeio"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate [module]",
	Short: "Migrate module descriptors to pyproject.toml",
	Long: `Migrate one module (by name) or every discovered module (--all) from the
legacy init.yaml + requirements.txt descriptor pair to a uv-workspace
pyproject.toml manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	if err := ops.RegisterCommand("migrate", ops.GroupWorkflow, migrateCmd, "Migrate module descriptors to pyproject.toml"); err != nil {
		panic(fmt.Sprintf("failed to register migrate command: %v", err))
	}

	migrateCmd.Flags().Bool("all", false, "Migrate every discovered module")
	migrateCmd.Flags().Bool("dry-run", false, "Preview without writing files")
	migrateCmd.Flags().Bool("no-overwrite", false, "Skip modules that already have a target manifest")
	migrateCmd.Flags().String("root", ".", "Workspace root to scan")
	migrateCmd.Flags().String("format", "concise", "Batch report format (concise, markdown, json)")
	migrateCmd.Flags().String("output", "", "Write the batch report to a file (default: stdout)")
	migrateCmd.Flags().Int("concurrency", 0, "Parallel batch migrations (0 uses the configured value)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noOverwrite, _ := cmd.Flags().GetBool("no-overwrite")
	root, _ := cmd.Flags().GetString("root")

	if !all && len(args) == 0 {
		return exitWith(exitcode.GeneralError,
			fmt.Errorf("specify a module name or use --all\n%s", flagUsages(cmd.Flags())))
	}
	if all && len(args) > 0 {
		return exitWith(exitcode.GeneralError, errors.New("cannot combine a module name with --all"))
	}

	cfg, err := config.Load()
	if err != nil {
		return exitWith(exitcode.ConfigError, err)
	}

	orch, err := migrate.New(root, cfg)
	if err != nil {
		return exitWith(exitcode.FileSystemError, err)
	}

	opts := migrate.Options{
		DryRun:      dryRun,
		NoOverwrite: noOverwrite,
		Concurrency: cfg.Concurrency,
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		opts.Concurrency = n
	}

	if all {
		return runMigrateAll(cmd, orch, opts)
	}
	return runMigrateOne(cmd, orch, args[0], opts)
}

func runMigrateOne(cmd *cobra.Command, orch *migrate.Orchestrator, name string, opts migrate.Options) error {
	result := orch.MigrateModule(name, opts)

	if !result.Success {
		return exitWith(failureExitCode(result.Kind), fmt.Errorf("%s: %s", name, result.Message))
	}

	if opts.DryRun {
		fmt.Fprint(cmd.OutOrStdout(), result.Content)
		return nil
	}

	logger.Info(result.Message, logger.String("module", result.Module))
	if result.OutputPath != "" && result.Written {
		logger.Info("Output written", logger.String("path", result.OutputPath))
	}
	return nil
}

func runMigrateAll(cmd *cobra.Command, orch *migrate.Orchestrator, opts migrate.Options) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := migrate.ParseFormat(formatName)
	if err != nil {
		return exitWith(exitcode.GeneralError, err)
	}

	report, err := orch.MigrateAll(opts)
	if err != nil {
		return exitWith(exitcode.FileSystemError, err)
	}

	out, err := migrate.NewFormatter(format).FormatReport(report)
	if err != nil {
		return exitWith(exitcode.GeneralError, err)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := safeio.WriteFilePreservePerms(path, []byte(out)); err != nil {
			return exitWith(exitcode.FileSystemError, err)
		}
		logger.Info("Report written", logger.String("path", path))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// failureExitCode maps a failure kind onto the process exit code for
// single-module invocations.
func failureExitCode(kind migrate.FailureKind) int {
	switch kind {
	case migrate.KindModuleNotFound:
		return exitcode.ModuleNotFound
	case migrate.KindDescriptorRead:
		return exitcode.FileSystemError
	case migrate.KindMalformedURL, migrate.KindNamingConflict:
		return exitcode.ValidationError
	default:
		return exitcode.GeneralError
	}
}
