package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Yasin57/doublon/internal/doublon"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Report is the result of one operation, printable as a table or as JSON.
type Report struct {
	// Operation is the canonical operation name.
	Operation string `json:"operation"`
	// Dir1 is the reference root.
	Dir1 string `json:"dir1"`
	// Dir2 is the secondary root, when the operation uses one.
	Dir2 string `json:"dir2,omitempty"`
	// FileCount is the number of files scanned across both roots.
	FileCount int64 `json:"file_count"`
	// TotalBytes is the cumulative size of all scanned files.
	TotalBytes int64 `json:"total_bytes"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`

	// Groups holds the confirmed duplicate groups (operation duplicates).
	Groups []doublon.Group `json:"groups,omitempty"`
	// Totals holds per-category byte counts (operation usage).
	Totals doublon.Totals `json:"totals,omitempty"`
	// Comparison classifies dir2 files (operations diff, clean, repatriate).
	Comparison *doublon.Comparison `json:"comparison,omitempty"`
	// Clean reports deletions (operation clean).
	Clean *doublon.CleanResult `json:"clean,omitempty"`
	// Repatriate reports copies (operation repatriate).
	Repatriate *doublon.RepatriateResult `json:"repatriate,omitempty"`
	// Skipped lists files dropped because they could not be read.
	Skipped []doublon.Skip `json:"skipped,omitempty"`
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report *Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	switch report.Operation {
	case "duplicates":
		printGroups(w, report)
	case "usage":
		printTotals(w, report)
	case "diff", "clean", "repatriate":
		printComparison(w, report)
	}

	printSkipped(w, report.Skipped)
	if report.Comparison != nil {
		printSkipped(w, report.Comparison.Skipped)
	}

	// Stats summary
	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Files scanned:\t%d\n", report.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(report.TotalBytes)), report.TotalBytes)
	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}

func printGroups(w io.Writer, report *Report) {
	if len(report.Groups) == 0 {
		fmt.Fprintln(w, "\nNo duplicate groups found.")

		return
	}

	fmt.Fprintln(w, "\nDuplicate groups:\t\t")

	var wasted int64

	for i, group := range report.Groups {
		size := group.Representative().Size
		wasted += size * int64(len(group.Records)-1)

		fmt.Fprintf(w, "  %d) %s\t%s each\n", i+1, group.Representative().Path, humanize.IBytes(uint64(size)))

		for _, dup := range group.Duplicates() {
			fmt.Fprintf(w, "     = %s\t\n", dup.Path)
		}
	}

	fmt.Fprintf(w, "\nGroups:\t%d\n", len(report.Groups))
	fmt.Fprintf(w, "Reclaimable:\t%s\n", humanize.IBytes(uint64(wasted)))
}

func printTotals(w io.Writer, report *Report) {
	fmt.Fprintln(w, "\nUsage by category:\t\t")

	for _, category := range doublon.AllCategories {
		size := report.Totals[category]

		pct := 0.0
		if report.TotalBytes > 0 {
			pct = 100.0 * float64(size) / float64(report.TotalBytes)
		}

		fmt.Fprintf(w, "  %s:\t%s (%.1f%%)\n", category, humanize.IBytes(uint64(size)), pct)
	}
}

func printComparison(w io.Writer, report *Report) {
	cmp := report.Comparison

	fmt.Fprintf(w, "\nDuplicates of %q:\t%d\n", report.Dir1, len(cmp.Duplicates))

	for _, r := range cmp.Duplicates {
		fmt.Fprintf(w, "  = %s\t%s\n", r.Path, humanize.IBytes(uint64(r.Size)))
	}

	fmt.Fprintf(w, "\nUnique to %q:\t%d\n", report.Dir2, len(cmp.Uniques))

	for _, r := range cmp.Uniques {
		fmt.Fprintf(w, "  + %s\t%s\n", r.Path, humanize.IBytes(uint64(r.Size)))
	}

	if report.Clean != nil {
		var freed int64
		for _, r := range cmp.Duplicates {
			freed += r.Size
		}

		fmt.Fprintf(w, "\nRemoved:\t%d files\n", len(report.Clean.Removed))

		if len(report.Clean.Removed) == len(cmp.Duplicates) {
			fmt.Fprintf(w, "Freed:\t%s\n", humanize.IBytes(uint64(freed)))
		}

		printFailures(w, report.Clean.Failed)
	}

	if report.Repatriate != nil {
		fmt.Fprintf(w, "\nCopied:\t%d files\n", len(report.Repatriate.Copied))

		for _, dst := range report.Repatriate.Copied {
			fmt.Fprintf(w, "  -> %s\t\n", dst)
		}

		if len(report.Repatriate.Kept) > 0 {
			fmt.Fprintf(w, "Kept at destination (newer or equal):\t%d\n", len(report.Repatriate.Kept))

			for _, src := range report.Repatriate.Kept {
				fmt.Fprintf(w, "  != %s\t\n", src)
			}
		}

		printFailures(w, report.Repatriate.Failed)
	}
}

func printFailures(w io.Writer, failed []doublon.Skip) {
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(w, "Failed:\t%d\n", len(failed))

	for _, f := range failed {
		fmt.Fprintf(w, "  ! %s\t\n", f.Reason)
	}
}

func printSkipped(w io.Writer, skipped []doublon.Skip) {
	if len(skipped) == 0 {
		return
	}

	fmt.Fprintln(w, "\nSkipped (unreadable):\t\t")

	for _, s := range skipped {
		fmt.Fprintf(w, "  ? %s\t\n", s.Path)
	}
}
