/*
Copyright © 2026 ADHD Framework Authors
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/adhd-framework/uvmigrate/internal/ops"
	"github.com/adhd-framework/uvmigrate/pkg/buildinfo"
	"github.com/adhd-framework/uvmigrate/pkg/exitcode"
	"github.com/adhd-framework/uvmigrate/pkg/logger"
)

// exitError carries a process exit code out of a command RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uvmigrate",
		Short: "Migrate framework modules from init.yaml to pyproject.toml",
		Long: `uvmigrate converts legacy module descriptors (init.yaml + requirements.txt)
into uv-workspace pyproject.toml manifests for ADHD framework modules.

Examples:
   uvmigrate migrate session_manager        # Migrate a single module
   uvmigrate migrate --all                  # Migrate every discovered module
   uvmigrate migrate --all --dry-run        # Preview without writing
   uvmigrate preview session_manager        # Print the manifest a migration would write`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Wire Cobra's built-in --version using the binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("uvmigrate {{.Version}}\n")

	// Grouped help by command group (Workflow → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Workflow Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupWorkflow) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// initializeLogger configures the default logger from the persistent flags.
func initializeLogger(cmd *cobra.Command) {
	levelName, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	dryRun := false
	if fl := cmd.Flags().Lookup("dry-run"); fl != nil {
		dryRun = fl.Value.String() == "true"
	}

	logger.Initialize(logger.Config{
		Level:    logger.ParseLevel(levelName),
		UseColor: !noColor && isTerminal(),
		JSON:     jsonOut,
		DryRun:   dryRun,
	})
}

func isTerminal() bool {
	if fi, err := os.Stderr.Stat(); err == nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// flagUsages summarizes a flag set for error messages.
func flagUsages(flags *pflag.FlagSet) string {
	var out string
	flags.VisitAll(func(f *pflag.Flag) {
		out += fmt.Sprintf("  --%s: %s\n", f.Name, f.Usage)
	})
	return out
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(migrateCmd)
	cmd.AddCommand(previewCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		var coded *exitError
		if errors.As(err, &coded) {
			os.Exit(coded.code)
		}
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}
