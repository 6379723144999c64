package commands

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/profile-header-etl/internal/domain"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	flags := &HeaderFlags{}

	cmd := &cobra.Command{
		Use:   "check <profile-file> <site-file>",
		Short: "Check a profile header against its site description",
		Long: `Check that every header value of a profile file matches the site-description
file of the same pit. The site description may carry more keys.

Exit codes:
  0 - Headers agree
  1 - Headers disagree
  2 - A file could not be parsed`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *HeaderFlags) error {
	profile, err := parseFile(cmd, args[0], flags)
	if err != nil {
		return err
	}

	site, err := parseFile(cmd, args[1], flags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = domain.CheckIntegrity(profile.Metadata(), site.Metadata())
	var ie *domain.IntegrityError
	if !errors.As(err, &ie) {
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "OK: %s agrees with %s\n", args[0], args[1])
		return nil
	}

	keys := make([]string, 0, len(ie.Mismatches))
	for k := range ie.Mismatches {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	_, _ = fmt.Fprintf(out, "MISMATCH: %s disagrees with %s\n", args[0], args[1])
	for _, k := range keys {
		_, _ = fmt.Fprintf(out, "  %s: %s\n", k, ie.Mismatches[k])
	}
	ExitCode = 1
	return nil
}
