package doublon

import "sort"

// Comparison classifies the files of a secondary root against a reference
// root. Every readable record of the secondary set lands in exactly one of
// Duplicates or Uniques; unreadable records appear only in Skipped.
type Comparison struct {
	// Duplicates are secondary-root records whose content also exists in
	// the reference root, sorted by path.
	Duplicates []*Record `json:"duplicates"`
	// Uniques are secondary-root records with no content match in the
	// reference root, sorted by path.
	Uniques []*Record `json:"uniques"`
	// Skipped are records (from either side) dropped because they could
	// not be read.
	Skipped []Skip `json:"skipped,omitempty"`
}

// printKey identifies a size class plus fingerprint, the cheap candidate
// criteria shared by the staged pipeline.
type printKey struct {
	size int64
	fp   string
}

// Compare classifies every record of b as either a duplicate of some record
// in a or unique to b.
//
// The comparison is deliberately asymmetric: b records are matched against a
// only, never against each other. The lookup over a is keyed by (size,
// fingerprint) and restricted to sizes that occur in b, so no content of a
// is read for files that cannot possibly match; candidate hits are confirmed
// by checksum on both sides before they count as duplicates.
func (g Grouper) Compare(a, b []*Record) Comparison {
	var cmp Comparison

	sizesB := make(map[int64]struct{}, len(b))
	for _, r := range b {
		sizesB[r.Size] = struct{}{}
	}

	lookup := make(map[printKey][]*Record)

	for _, r := range a {
		if _, ok := sizesB[r.Size]; !ok {
			continue
		}

		fp, err := r.Fingerprint(g.ProbeWidth)
		if err != nil {
			cmp.Skipped = append(cmp.Skipped, Skip{Path: r.Path, Reason: err.Error()})

			continue
		}

		key := printKey{size: r.Size, fp: fp}
		lookup[key] = append(lookup[key], r)
	}

	for _, r := range b {
		fp, err := r.Fingerprint(g.ProbeWidth)
		if err != nil {
			cmp.Skipped = append(cmp.Skipped, Skip{Path: r.Path, Reason: err.Error()})

			continue
		}

		candidates := lookup[printKey{size: r.Size, fp: fp}]
		if len(candidates) == 0 {
			cmp.Uniques = append(cmp.Uniques, r)

			continue
		}

		sum, err := r.Checksum()
		if err != nil {
			cmp.Skipped = append(cmp.Skipped, Skip{Path: r.Path, Reason: err.Error()})

			continue
		}

		matched := false

		for _, cand := range candidates {
			candSum, err := cand.Checksum()
			if err != nil {
				cmp.Skipped = append(cmp.Skipped, Skip{Path: cand.Path, Reason: err.Error()})

				continue
			}

			if candSum == sum {
				matched = true

				break
			}
		}

		if matched {
			cmp.Duplicates = append(cmp.Duplicates, r)
		} else {
			cmp.Uniques = append(cmp.Uniques, r)
		}
	}

	// A reference-side record can fail against several b records; report it
	// once.
	seen := make(map[string]struct{}, len(cmp.Skipped))
	deduped := cmp.Skipped[:0]

	for _, s := range cmp.Skipped {
		if _, ok := seen[s.Path]; ok {
			continue
		}

		seen[s.Path] = struct{}{}
		deduped = append(deduped, s)
	}

	cmp.Skipped = deduped

	sort.Slice(cmp.Duplicates, func(i, j int) bool { return cmp.Duplicates[i].Path < cmp.Duplicates[j].Path })
	sort.Slice(cmp.Uniques, func(i, j int) bool { return cmp.Uniques[i].Path < cmp.Uniques[j].Path })
	sort.Slice(cmp.Skipped, func(i, j int) bool { return cmp.Skipped[i].Path < cmp.Skipped[j].Path })

	return cmp
}
