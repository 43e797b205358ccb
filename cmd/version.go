/*
Copyright © 2026 ADHD Framework Authors
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/adhd-framework/uvmigrate/internal/ops"
	"github.com/adhd-framework/uvmigrate/pkg/buildinfo"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show version information"); err != nil {
		panic(fmt.Sprintf("failed to register version command: %v", err))
	}

	versionCmd.Flags().Bool("extended", false, "Show detailed build information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

type versionInfo struct {
	Binary        string `json:"binary"`
	Version       string `json:"version"`
	ModuleVersion string `json:"module_version,omitempty"`
	GoVersion     string `json:"go_version,omitempty"`
	Platform      string `json:"platform,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	info := versionInfo{
		Binary:  buildinfo.BinaryName,
		Version: buildinfo.BinaryVersion,
	}
	if extended {
		info.ModuleVersion = buildinfo.ModuleVersion()
		info.GoVersion = runtime.Version()
		info.Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%s %s\n", info.Binary, info.Version)
	if extended {
		if info.ModuleVersion != "" {
			fmt.Fprintf(out, "module:    %s\n", info.ModuleVersion)
		}
		fmt.Fprintf(out, "go:        %s\n", info.GoVersion)
		fmt.Fprintf(out, "platform:  %s\n", info.Platform)
	}
	return nil
}
