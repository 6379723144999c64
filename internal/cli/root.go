// Package cli provides the profilectl command-line interface for
// interpreting field files without running the streaming service.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/profile-header-etl/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// SilenceErrors keeps cobra from printing this itself.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "profilectl",
		Short: "Interpret snow pit and profile file headers",
		Long: `profilectl reads the commented header of a snow profile or site-description
file and prints the normalized header: column names, profile types, date and
time, UTM and geographic coordinates, and passthrough metadata.

Exit codes:
  0 - Success
  1 - Integrity mismatch between a profile and its site description
  2 - Unreadable or invalid file, or bad arguments`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
