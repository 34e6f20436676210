package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build variables - these are set during build time using ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	GoVersion = runtime.Version()
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bancheck version %s (%s)\n", Version, GitCommit)
	fmt.Fprintf(out, "go version %s\n", GoVersion)

	// The extractor version is useful when diagnosing fetch problems,
	// but a missing binary should not break the version command.
	if a, err := newApp(); err == nil {
		if v, err := a.runner.Version(cmd.Context()); err == nil {
			fmt.Fprintf(out, "extractor version %s\n", v)
		}
	}
}
