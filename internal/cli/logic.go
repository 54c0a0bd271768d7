package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/Yasin57/doublon/internal/config"
	"github.com/Yasin57/doublon/internal/doublon"
)

func logic(opts options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Explicit flag wins over the config file.
	probeWidth := cfg.ProbeWidth
	if opts.ProbeWidth > 0 {
		probeWidth = opts.ProbeWidth
	}

	enableProgress := strings.ToLower(opts.Output) != "json" &&
		!opts.Debug &&
		isatty.IsTerminal(os.Stderr.Fd())

	ctx := context.Background()

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
		}
	}

	scanOpts := doublon.ScanOptions{
		Excludes: opts.Excludes,
		MinSize:  opts.MinSize,
		Debug:    opts.Debug,
	}

	start := time.Now()

	report, err := runOperation(ctx, opts, cfg, probeWidth, scanOpts, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	report.Elapsed = time.Since(start)

	switch strings.ToLower(opts.Output) {
	case "json":
		return PrintJSON(report, os.Stdout)
	case "table":
		return PrintTable(report, os.Stdout)
	default:
		return fmt.Errorf("unknown output format: %s", opts.Output)
	}
}

// runOperation scans the requested roots and dispatches to the selected
// operation.
func runOperation(
	ctx context.Context,
	opts options,
	cfg config.Config,
	probeWidth int,
	scanOpts doublon.ScanOptions,
	progressHook func(int64, int64),
) (*Report, error) {
	records1, err := doublon.Scan(ctx, opts.Dir1, scanOpts, progressHook)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Operation: opts.Operation.name(),
		Dir1:      opts.Dir1,
		Dir2:      opts.Dir2,
		FileCount: int64(len(records1)),
	}
	for _, r := range records1 {
		report.TotalBytes += r.Size
	}

	grouper := doublon.Grouper{ProbeWidth: probeWidth}

	switch opts.Operation {
	case opDuplicates:
		groups, skipped := grouper.Groups(records1)
		report.Groups = groups
		report.Skipped = skipped

	case opUsage:
		report.Totals = doublon.Categories(records1, cfg.Categories)

	case opDiff, opClean, opRepatriate:
		records2, err := doublon.Scan(ctx, opts.Dir2, scanOpts, progressHook)
		if err != nil {
			return nil, err
		}

		report.FileCount += int64(len(records2))
		for _, r := range records2 {
			report.TotalBytes += r.Size
		}

		cmp := grouper.Compare(records1, records2)
		report.Comparison = &cmp

		if opts.Operation == opClean {
			res := doublon.RemoveDuplicates(cmp.Duplicates)
			report.Clean = &res
		}

		if opts.Operation == opRepatriate {
			res := doublon.Repatriate(opts.Dir1, cmp.Uniques, records1)
			report.Repatriate = &res
		}
	}

	return report, nil
}
