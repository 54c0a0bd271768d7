// Package cli implements the doublon command-line interface.
package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Yasin57/doublon/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// DefaultExcludes contains the default exclusion patterns.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{`.*\.git/.*`, `.*node_modules/.*`}

// operation identifies one of the five top-level operations.
type operation int

const (
	opDuplicates operation = iota + 1
	opUsage
	opDiff
	opClean
	opRepatriate
)

// name returns the canonical operation name for reports.
func (op operation) name() string {
	switch op {
	case opDuplicates:
		return "duplicates"
	case opUsage:
		return "usage"
	case opDiff:
		return "diff"
	case opClean:
		return "clean"
	case opRepatriate:
		return "repatriate"
	default:
		return "unknown"
	}
}

// needsDir2 reports whether the operation compares two roots.
func (op operation) needsDir2() bool {
	return op >= opDiff
}

// parseOperation accepts the numeric selector (1-5) or the operation name.
func parseOperation(arg string) (operation, error) {
	switch arg {
	case "1", "duplicates":
		return opDuplicates, nil
	case "2", "usage":
		return opUsage, nil
	case "3", "diff":
		return opDiff, nil
	case "4", "clean":
		return opClean, nil
	case "5", "repatriate":
		return opRepatriate, nil
	default:
		return 0, fmt.Errorf("unknown operation %q: must be 1-5 or one of duplicates, usage, diff, clean, repatriate", arg)
	}
}

// options collects everything the flag set and positional arguments supply.
type options struct {
	Operation  operation
	Dir1       string
	Dir2       string
	ConfigPath string
	ProbeWidth int
	Output     string
	Excludes   []string
	MinSize    int64
	Debug      bool
}

// registerFlags binds the flag set to opts. minSizeStr is parsed with
// humanize after the flag set has run.
func registerFlags(fs *pflag.FlagSet, opts *options, minSizeStr *string) {
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Optional INI config file (probe width, category overrides)")
	fs.IntVarP(&opts.ProbeWidth, "probe-width", "p", 0, "Leading bytes compared before hashing (0=config default)")
	fs.StringVarP(&opts.Output, "output", "o", "table", "Output format: json or table")
	fs.StringSliceVarP(&opts.Excludes, "exclude", "e", DefaultExcludes, "Regex patterns to exclude")
	fs.StringVar(minSizeStr, "min-size", "0B", "Minimum file size (e.g., 1KB)")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug output")
	fs.SortFlags = false
}

// longHelp is the extended command description.
func longHelp() string {
	return heredoc.Doc(`
		doublon finds exact duplicate files within or across directory trees.

		Operations (numeric selector or name):

		  1 duplicates   Report duplicate groups inside <dir1>.
		  2 usage        Disk usage of <dir1> by category (Text/Image/Video/Audio/Other).
		  3 diff         Classify each <dir2> file as duplicate-of-<dir1> or unique.
		  4 clean        diff, then delete every <dir2> file duplicating one in <dir1>.
		  5 repatriate   diff, then copy every <dir2>-unique file into <dir1>;
		                 same-name conflicts keep the more recently modified file.

		Duplicates are confirmed in stages: files are compared by size first,
		then by their leading bytes, and only surviving candidates are MD5
		hashed. Two files count as duplicates only when all three agree.
	`)
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	return c.newCommand().Execute()
}

// newCommand builds the cobra command, including flag registration and
// positional-argument validation.
func (c CLI) newCommand() *cobra.Command {
	var (
		opts       options
		minSizeStr string
		showInit   bool
	)

	allowedOutputs := []string{"table", "json"}

	cmd := &cobra.Command{
		Use:           "doublon [flags] <operation> <dir1> [dir2]",
		Short:         "Find and act on exact duplicate files",
		Long:          longHelp(),
		Version:       c.version,
		Args:          cobra.RangeArgs(0, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if showInit {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				//nolint:forbidigo // Integration script output to console
				fmt.Println(rendered)

				return nil
			}

			if !slices.Contains(allowedOutputs, opts.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", opts.Output, allowedOutputs)
			}

			if opts.ProbeWidth < 0 {
				return errors.New("probe width cannot be negative")
			}

			if len(args) < 2 {
				return errors.New("an operation and <dir1> are required")
			}

			op, err := parseOperation(args[0])
			if err != nil {
				return err
			}

			opts.Operation = op
			opts.Dir1 = args[1]

			if op.needsDir2() {
				if len(args) < 3 {
					return fmt.Errorf("operation %q requires <dir2>", op.name())
				}

				opts.Dir2 = args[2]
			} else if len(args) > 2 {
				return fmt.Errorf("operation %q takes a single directory", op.name())
			}

			// Parse minSize string to bytes
			if minSizeStr != "" {
				size, err := humanize.ParseBytes(minSizeStr)
				if err != nil {
					return fmt.Errorf("invalid min-size: %w", err)
				}

				opts.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe
			}

			return logic(opts)
		},
	}

	registerFlags(cmd.Flags(), &opts, &minSizeStr)
	cmd.Flags().BoolVarP(&showInit, "init", "i", false, "Output init script for shell usage")

	return cmd
}
