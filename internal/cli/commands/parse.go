package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/profile-header-etl/internal/adapter/utm"
	"github.com/couchcryptid/profile-header-etl/internal/domain"
	"github.com/couchcryptid/profile-header-etl/internal/observability"
)

// ExitCode is set by commands to indicate the result.
var ExitCode = 0

// HeaderFlags are the parse options shared by parse and check.
type HeaderFlags struct {
	TimeZone      string
	EPSG          int
	HeaderSep     string
	FieldSep      string
	Southern      bool
	Extra         []string
	OverridesFile string
}

func (f *HeaderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.TimeZone, "timezone", "-0700", "UTC offset or IANA zone of the recorded times")
	cmd.Flags().IntVar(&f.EPSG, "epsg", 26912, "EPSG code of the projected coordinates")
	cmd.Flags().StringVar(&f.HeaderSep, "sep", ",", "Separator between header keys and values")
	cmd.Flags().StringVar(&f.FieldSep, "field-sep", ",", "Separator between data columns")
	cmd.Flags().BoolVar(&f.Southern, "southern", false, "Coordinates are in the southern hemisphere")
	cmd.Flags().StringArrayVar(&f.Extra, "extra", nil, "Header override as key=value (can be repeated)")
	cmd.Flags().StringVar(&f.OverridesFile, "overrides", "", "YAML file of header overrides")
}

// options builds parse options for one file. --extra wins over --overrides.
func (f *HeaderFlags) options(path string) (domain.HeaderOptions, error) {
	overrides := map[string]string{}
	if f.OverridesFile != "" {
		fromFile, err := LoadOverrides(f.OverridesFile)
		if err != nil {
			return domain.HeaderOptions{}, err
		}
		overrides = fromFile
	}
	for _, kv := range f.Extra {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return domain.HeaderOptions{}, fmt.Errorf("invalid --extra %q, want key=value", kv)
		}
		overrides[strings.TrimSpace(k)] = v
	}

	return domain.HeaderOptions{
		Filename:        path,
		SiteDescription: domain.IsSiteDescription(path),
		FieldSeparator:  f.FieldSep,
		HeaderSeparator: f.HeaderSep,
		TimeZone:        f.TimeZone,
		SRID:            f.EPSG,
		Northern:        !f.Southern,
		Overrides:       overrides,
		Projector:       utm.NewProjector(),
	}, nil
}

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	HeaderFlags
	Output string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the normalized header of a field file",
		Long: `Parse the commented header of a profile or site-description file.

Files whose name contains "site" are read as site descriptions: every line
but the last is metadata and no column names are expected.

Output formats:
  json   - the normalized header (default)
  record - the flat storage record`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "json", "Output format (json|record)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	if opts.Output != "json" && opts.Output != "record" {
		return fmt.Errorf("invalid output format %q", opts.Output)
	}

	h, err := parseFile(cmd, args[0], &opts.HeaderFlags)
	if err != nil {
		return err
	}

	var v any = h
	if opts.Output == "record" {
		v = h.Record()
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseFile(cmd *cobra.Command, path string, flags *HeaderFlags) (domain.NormalizedProfileHeader, error) {
	hopts, err := flags.options(path)
	if err != nil {
		return domain.NormalizedProfileHeader{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.NormalizedProfileHeader{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lines, err := domain.ReadLines(f)
	if err != nil {
		return domain.NormalizedProfileHeader{}, fmt.Errorf("reading %s: %w", path, err)
	}

	h, err := domain.ParseProfileHeader(lines, hopts, commandLogger(cmd))
	if err != nil {
		return domain.NormalizedProfileHeader{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return h, nil
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: observability.ParseLevel(level),
	}))
}
