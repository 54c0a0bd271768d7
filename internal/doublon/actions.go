package doublon

import (
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Replaceable function pointers so tests can simulate failing deletes and
// copies without touching filesystem permissions.
//
//nolint:gochecknoglobals // Test seam
var (
	removeFunc = os.Remove
	copyFunc   = copyFile
)

// CleanResult reports the outcome of a duplicate-removal batch.
type CleanResult struct {
	// Removed lists the paths deleted, in order.
	Removed []string `json:"removed"`
	// Failed enumerates the deletes that did not succeed.
	Failed []Skip `json:"failed,omitempty"`
}

// RemoveDuplicates deletes every record in dups. Each record was confirmed
// by full checksum before reaching this point, so an interrupted batch never
// deletes a non-duplicate. A failed delete is recorded and the batch
// continues with the remaining files.
func RemoveDuplicates(dups []*Record) CleanResult {
	var res CleanResult

	for _, r := range dups {
		if err := removeFunc(r.Path); err != nil {
			actionErr := &ActionError{Op: "delete", Path: r.Path, Err: err}
			res.Failed = append(res.Failed, Skip{Path: r.Path, Reason: actionErr.Error()})

			continue
		}

		res.Removed = append(res.Removed, r.Path)
	}

	return res
}

// RepatriateResult reports the outcome of copying unique files into the
// reference root.
type RepatriateResult struct {
	// Copied lists the destination paths written, in order.
	Copied []string `json:"copied"`
	// Kept lists source paths not copied because the destination already
	// carries a more recent (or equally recent) same-name file.
	Kept []string `json:"kept,omitempty"`
	// Failed enumerates the copies that did not succeed.
	Failed []Skip `json:"failed,omitempty"`
}

// Repatriate copies every record of uniques into the top of root under its
// base name.
//
// Same-name conflict rule: the side with the more recent ModTime wins the
// destination name. On exactly equal timestamps the file already at the
// destination is kept. Several records may share a base name, both among
// existing and among uniques; the most recently modified one holding the
// name is always the conflict reference, so a freshly copied unique defends
// the name against older uniques later in the batch. Failed copies are
// recorded and the batch continues.
func Repatriate(root string, uniques, existing []*Record) RepatriateResult {
	var res RepatriateResult

	byName := make(map[string]*Record, len(existing))

	for _, r := range existing {
		if prev, ok := byName[r.Name]; !ok || r.ModTime.After(prev.ModTime) {
			byName[r.Name] = r
		}
	}

	for _, r := range uniques {
		if prev, ok := byName[r.Name]; ok && !r.ModTime.After(prev.ModTime) {
			res.Kept = append(res.Kept, r.Path)

			continue
		}

		dst := filepath.Join(root, r.Name)

		if err := copyFunc(r.Path, dst); err != nil {
			actionErr := &ActionError{Op: "copy", Path: r.Path, Err: err}
			res.Failed = append(res.Failed, Skip{Path: r.Path, Reason: actionErr.Error()})

			continue
		}

		res.Copied = append(res.Copied, dst)
		byName[r.Name] = newRecordFromInfo(dst, r.Size, r.ModTime)
	}

	sort.Strings(res.Copied)
	sort.Strings(res.Kept)

	return res
}

// copyFile copies src to dst, replacing an existing destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return err
	}

	return out.Close()
}
